package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/4PPL8/wahabstore/internal/notify"
	"github.com/4PPL8/wahabstore/internal/repository"
)

// ChallengeTTL is how long a verification code stays valid, measured from
// the latest issue or resend.
const ChallengeTTL = 10 * time.Minute

var (
	ErrNoPendingChallenge = errors.New("no pending verification challenge")
	ErrChallengeExpired   = errors.New("verification code has expired")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrEmailRequired      = errors.New("email is required")
)

// Profile carries the optional registration fields captured at login.
type Profile struct {
	Name  string
	Phone string
}

// Service drives the session lifecycle: anonymous, pending verification,
// authenticated. Pending challenges live in the volatile store, confirmed
// users in the durable repository.
type Service struct {
	users    repository.UserRepository
	pending  *PendingStore
	notifier notify.Notifier

	mu  sync.Mutex // serializes the verify transition per process
	gen CodeGenerator
	now func() time.Time
}

func NewService(users repository.UserRepository, pending *PendingStore, notifier notify.Notifier) *Service {
	return &Service{
		users:    users,
		pending:  pending,
		notifier: notifier,
		gen:      SixDigitCode,
		now:      time.Now,
	}
}

// Login issues a fresh challenge for the session and simulates sending it
// by email. Any previous challenge for the session is replaced.
func (s *Service) Login(ctx context.Context, sessionID, email string, profile Profile) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	code := s.gen()
	s.pending.Put(sessionID, domain.PendingAuth{
		Email:    email,
		Name:     profile.Name,
		Phone:    profile.Phone,
		Code:     code,
		IssuedAt: s.now(),
	})

	// No real delivery channel exists; the log line stands in for the mail.
	log.Printf("simulated mail to %s: your verification code is %s", email, code)
	s.notifier.Success(fmt.Sprintf("Verification code sent to %s", email))
	return nil
}

// Verify checks the supplied code against the pending challenge. On a match
// the challenge is consumed and the durable user is written in the same
// critical section, so callers never observe both records or neither.
func (s *Service) Verify(ctx context.Context, sessionID, code string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending.Get(sessionID)
	if !ok {
		s.notifier.Error("No pending verification found. Please try logging in again.")
		return nil, ErrNoPendingChallenge
	}

	if s.now().Sub(p.IssuedAt) > ChallengeTTL {
		// Expired challenges are not retryable, the user starts over at Login.
		s.pending.Delete(sessionID)
		s.notifier.Error("Verification code has expired. Please try logging in again.")
		return nil, ErrChallengeExpired
	}

	// Exact string comparison: "004521" must not match 4521.
	if p.Code != code {
		s.notifier.Error("Invalid verification code. Please try again.")
		return nil, ErrInvalidCode
	}

	name := p.Name
	if name == "" {
		name, _, _ = strings.Cut(p.Email, "@")
	}

	user := &domain.User{
		SessionID:  sessionID,
		Email:      p.Email,
		Name:       name,
		Phone:      p.Phone,
		IsVerified: true,
		LoginTime:  s.now(),
	}

	if err := s.users.UpsertUser(ctx, user); err != nil {
		// Challenge stays intact so the user may retry after a storage hiccup.
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	s.pending.Delete(sessionID)
	s.notifier.Success("Login successful!")
	return user, nil
}

// Resend replaces the code and restarts the expiry window. Without a pending
// challenge there is nothing to resend.
func (s *Service) Resend(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending.Get(sessionID)
	if !ok {
		return ErrNoPendingChallenge
	}

	p.Code = s.gen()
	p.IssuedAt = s.now()
	s.pending.Put(sessionID, p)

	log.Printf("simulated mail to %s: your verification code is %s", p.Email, p.Code)
	s.notifier.Success(fmt.Sprintf("Verification code sent to %s", p.Email))
	return nil
}

// Logout clears both the durable user and any pending challenge.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.users.DeleteUser(ctx, sessionID); err != nil {
		return err
	}
	s.pending.Delete(sessionID)
	s.notifier.Success("Logged out successfully")
	return nil
}

// CurrentUser returns the authenticated user for the session, or
// repository.ErrUserNotFound while anonymous.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	return s.users.GetUser(ctx, sessionID)
}

// PendingEmail reports whether a challenge is outstanding and for which
// address. The code itself is never exposed.
func (s *Service) PendingEmail(sessionID string) (string, bool) {
	p, ok := s.pending.Get(sessionID)
	if !ok {
		return "", false
	}
	return p.Email, true
}
