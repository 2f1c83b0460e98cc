// Package otp implements the volatile one-time-code store used by the
// registration and password-reset flows. Codes live in process memory only:
// a restart drops every pending code, which matches the deployment model of
// a single API instance fronting the mobile app.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// Purpose scopes a code to the flow that issued it. Codes never cross
// purposes: a reset code cannot complete a registration.
type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeReset    Purpose = "reset"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

// ErrCodeInvalid is returned by Consume for absent, expired and mismatched
// codes alike. Callers surface a single "invalid or expired" message so the
// response does not reveal which of the three happened.
var ErrCodeInvalid = errors.New("invalid or expired code")

// PendingRegistration carries the attributes of a not-yet-created account.
// The user record is only written once the registration code is consumed.
type PendingRegistration struct {
	FirstName    string
	LastName     string
	PasswordHash string
}

// Record is a stored one-time code.
type Record struct {
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
	Pending   *PendingRegistration
}

// Store is the keyed OTP store consumed by the auth flow. Implementations
// must make Consume atomic: two concurrent calls with the same valid code
// may not both succeed.
type Store interface {
	// Issue stores a fresh random 6-digit code under (purpose, email),
	// replacing any previous code for that key, and returns it. The caller
	// delivers the code out-of-band.
	Issue(purpose Purpose, email string, pending *PendingRegistration) (string, error)
	// Peek reads the record without consuming it. Expired records are
	// treated as absent.
	Peek(purpose Purpose, email string) (*Record, bool)
	// Consume validates the supplied code. Success deletes the record and
	// returns it. A mismatch against a still-valid record keeps the record
	// so the user can retry; an expired record is deleted either way.
	Consume(purpose Purpose, email, code string) (*Record, error)
	// Discard deletes the record unconditionally.
	Discard(purpose Purpose, email string)
}

// MemoryStore is the default in-process Store: a mutex-guarded map with a
// janitor goroutine sweeping expired entries. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	done    chan struct{}
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore and starts its janitor.
// Call Close to stop the janitor.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go s.janitor()
	return s
}

// Close stops the background sweep. The store remains usable; expired
// records are still purged lazily on every read.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) Issue(purpose Purpose, email string, pending *PendingRegistration) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	k := key(purpose, email)
	s.mu.Lock()
	s.records[k] = Record{
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(TTL),
		Pending:   pending,
	}
	s.mu.Unlock()
	return code, nil
}

func (s *MemoryStore) Peek(purpose Purpose, email string) (*Record, bool) {
	k := key(purpose, email)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[k]
	if !ok {
		return nil, false
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.records, k)
		return nil, false
	}
	cp := rec
	return &cp, true
}

func (s *MemoryStore) Consume(purpose Purpose, email, code string) (*Record, error) {
	k := key(purpose, email)
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[k]
	if !ok {
		return nil, ErrCodeInvalid
	}
	if s.now().After(rec.ExpiresAt) {
		// A stale code must not be retryable forever.
		delete(s.records, k)
		return nil, ErrCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		// Still valid: leave it so the user can retry with the right code.
		return nil, ErrCodeInvalid
	}
	delete(s.records, k)
	cp := rec
	return &cp, nil
}

func (s *MemoryStore) Discard(purpose Purpose, email string) {
	k := key(purpose, email)
	s.mu.Lock()
	delete(s.records, k)
	s.mu.Unlock()
}

// janitor sweeps expired records once a minute. Lazy deletion on the read
// paths covers the window between sweeps.
func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			for k, rec := range s.records {
				if now.After(rec.ExpiresAt) {
					delete(s.records, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

// NormalizeEmail lowercases and trims an address so that every lookup and
// every store key agree on the same canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func key(purpose Purpose, email string) string {
	return string(purpose) + ":" + NormalizeEmail(email)
}

// generateCode returns a uniformly random zero-padded 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
