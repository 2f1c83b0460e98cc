package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/otp"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/id"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldPasswordHash = "password_hash"
	fieldIsVerified   = "is_verified"
)

type RegisterResult struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type VerifyResult struct {
	UserID string `json:"userId"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Customer     *domain.User
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	ResendOTP(ctx context.Context, email string) (*VerifyResult, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*VerifyResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type tokenSigner interface {
	SignAccess(userID, email, role string) (string, error)
	SignRefresh(userID, email, role string) (string, error)
}

type service struct {
	users  userStore
	codes  otp.Store
	mailer mailer
	tokens tokenSigner
}

type ServiceDeps struct {
	UserRepo userStore
	OTPStore otp.Store
	Mailer   mailer
	Tokens   tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:  deps.UserRepo,
		codes:  deps.OTPStore,
		mailer: deps.Mailer,
		tokens: deps.Tokens,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", domain.ErrBadRequest)
	}
	email := otp.NormalizeEmail(req.Email)

	// Any existing row, verified or not, is a conflict. An unverified user
	// continues via resend_otp instead of registering again.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	// Same for an in-flight registration: resend_otp is the path to a fresh
	// code, not a duplicate register call.
	if _, ok := s.codes.Peek(otp.PurposeRegister, email); ok {
		return nil, fmt.Errorf("registration already pending for this email: %w", domain.ErrConflict)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	code, err := s.codes.Issue(otp.PurposeRegister, email, &otp.PendingRegistration{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	s.deliverOTP(email, code, "Registration")

	return &RegisterResult{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, nil
}

func (s *service) ResendOTP(ctx context.Context, email string) (*VerifyResult, error) {
	email = otp.NormalizeEmail(email)

	// A pending registration keeps its attributes across reissues; only the
	// code and expiry change.
	if rec, ok := s.codes.Peek(otp.PurposeRegister, email); ok && rec.Pending != nil {
		code, err := s.codes.Issue(otp.PurposeRegister, email, rec.Pending)
		if err != nil {
			return nil, err
		}
		s.deliverOTP(email, code, "Registration")
		return &VerifyResult{}, nil
	}

	// An account created but never verified gets a fresh attribute-less
	// code; verification then flips its flag instead of creating a row.
	if u, err := s.users.GetByEmail(ctx, email); err == nil && !u.IsVerified {
		code, err := s.codes.Issue(otp.PurposeRegister, email, nil)
		if err != nil {
			return nil, err
		}
		s.deliverOTP(email, code, "Registration")
		return &VerifyResult{UserID: u.UserID}, nil
	}

	return nil, fmt.Errorf("no pending registration or unverified user found: %w", domain.ErrNotFound)
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*VerifyResult, error) {
	email := otp.NormalizeEmail(req.Email)

	rec, err := s.codes.Consume(otp.PurposeRegister, email, req.OTP)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}

	if rec.Pending == nil {
		// Reissued code for an existing unverified account.
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
		}
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{fieldIsVerified: true}); err != nil {
			return nil, err
		}
		return &VerifyResult{UserID: u.UserID}, nil
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		PasswordHash: rec.Pending.PasswordHash,
		Name:         joinName(rec.Pending.FirstName, rec.Pending.LastName),
		Role:         domain.RoleCustomer,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return &VerifyResult{UserID: u.UserID}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	email := otp.NormalizeEmail(req.Email)

	// The same message covers unknown email and wrong password so the
	// response does not reveal whether an account exists.
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	access, err := s.tokens.SignAccess(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.SignRefresh(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, Customer: u}, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	email = otp.NormalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return fmt.Errorf("user with this email does not exist: %w", domain.ErrNotFound)
	}
	code, err := s.codes.Issue(otp.PurposeReset, email, nil)
	if err != nil {
		return err
	}
	s.deliverOTP(email, code, "Password Reset")
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmNewPassword {
		return fmt.Errorf("passwords do not match: %w", domain.ErrBadRequest)
	}
	email := otp.NormalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user with this email does not exist: %w", domain.ErrNotFound)
	}
	if _, err := s.codes.Consume(otp.PurposeReset, email, req.OTP); err != nil {
		return fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}
	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{fieldPasswordHash: hash})
}

// deliverOTP sends the code by email. Delivery failure is logged, not fatal:
// the code stays valid in the store and the client can hit resend_otp.
func (s *service) deliverOTP(email, code, purpose string) {
	subject := fmt.Sprintf("Your OTP Code for %s", purpose)
	body := fmt.Sprintf("Your %s code is: %s. It will expire in 10 minutes.", purpose, code)
	if err := s.mailer.SendEmail(email, subject, body); err != nil {
		slog.Error("failed to send OTP email", "email", email, "purpose", purpose, "err", err)
	}
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
