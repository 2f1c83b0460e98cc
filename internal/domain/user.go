package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Name         string    `json:"name" dynamodbav:"name"`
	ProfileImage *string   `json:"profile_image" dynamodbav:"profile_image"`
	Role         string    `json:"role" dynamodbav:"role"`
	IsVerified   bool      `json:"isVerified" dynamodbav:"is_verified"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email              string `json:"email" validate:"required,email"`
	OTP                string `json:"otp" validate:"required,len=6"`
	NewPassword        string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required"`
}

type CreateCustomerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     string  `json:"name" validate:"required"`
	Role     *string `json:"role"`
}

type UpdateCustomerRequest struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
}
