package domain

import "time"

// Upload statuses follow the print-order lifecycle.
const (
	UploadStatusPending   = "pending"
	UploadStatusApproved  = "approved"
	UploadStatusRejected  = "rejected"
	UploadStatusCancelled = "cancelled"
)

type Upload struct {
	UploadID        string     `json:"id" dynamodbav:"upload_id"`
	CustomerID      string     `json:"customer_id" dynamodbav:"customer_id"`
	Filename        string     `json:"filename" dynamodbav:"filename"`
	Object          string     `json:"-" dynamodbav:"object"`
	Format          string     `json:"format" dynamodbav:"format"`
	Status          string     `json:"status" dynamodbav:"status"`
	NeededAmount    *float64   `json:"needed_amount,omitempty" dynamodbav:"needed_amount"`
	CancelReason    *string    `json:"cancel_reason,omitempty" dynamodbav:"cancel_reason"`
	RejectionReason *string    `json:"rejection_reason,omitempty" dynamodbav:"rejection_reason"`
	CreatedAt       time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
	DeletedAt       *time.Time `json:"-" dynamodbav:"deleted_at"`
}
