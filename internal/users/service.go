package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/proshop-store/proshop-api/internal/auth"
	"github.com/proshop-store/proshop-api/internal/mail"
	"github.com/proshop-store/proshop-api/internal/platform/httpx"
)

// MailConfig carries the pieces the reset email needs.
type MailConfig struct {
	From      string
	ClientURL string
}

// Service orchestrates the account flows on top of the repository, the
// token manager and the mailer.
type Service struct {
	repo   Repository
	cache  *Cache
	tokens *auth.TokenManager
	mailer mail.Mailer
	mcfg   MailConfig
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, cache *Cache, tokens *auth.TokenManager, mailer mail.Mailer, mcfg MailConfig, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, tokens: tokens, mailer: mailer, mcfg: mcfg, logger: logger}
}

// Login validates email/password credentials and issues a session token.
// Unknown email and wrong password collapse into one error.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			s.logger.Error("login lookup", slog.Any("error", err))
		}
		return nil, "", httpx.ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", httpx.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a new account and issues a session token. The email
// pre-check is advisory; the database unique index settles races.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", httpx.ErrDuplicate
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := &User{
		ID:           uuid.New(),
		Name:         normalizeName(name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ProfileUpdate describes a self-service update. Nil fields are left
// unchanged; an explicit empty string is rejected at the handler layer.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile applies a partial update to the authenticated subject and
// issues a fresh token.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if update.Name != nil {
		user.Name = normalizeName(*update.Name)
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, "", err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, "", err
	}
	s.cache.Invalidate(ctx, id)
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ListUsers returns all accounts for the admin surface.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// GetUser returns a single account by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// AdminUpdate describes an admin-side update. Passwords cannot be changed
// through this path.
type AdminUpdate struct {
	Name    *string
	Email   *string
	IsAdmin *bool
}

// UpdateUser applies an admin update to an arbitrary account.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, update AdminUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		user.Name = normalizeName(*update.Name)
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.IsAdmin != nil {
		user.IsAdmin = *update.IsAdmin
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return user, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// ForgotPassword issues a reset token, anchors it on the user row and hands
// the reset email to the mailer. Lookup misses and lookup failures collapse
// into ErrNotFound so callers cannot enumerate accounts; the underlying
// failure is still logged.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			s.logger.Error("forgot password lookup", slog.Any("error", err))
		}
		return httpx.ErrNotFound
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return err
	}
	user.ResetToken = token
	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.cache.Invalidate(ctx, user.ID)

	msg, err := mail.NewResetMessage(s.mcfg.From, user.Email, s.mcfg.ClientURL, token)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("enqueue reset email", slog.Any("error", err))
		return httpx.ErrDelivery
	}
	return nil
}

// ResetPassword consumes a reset token: verify signature and expiry, match
// the stored token (the single-use check), rehash and clear. Every failure
// mode answers ErrTokenInvalid.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if _, err := s.tokens.Verify(token); err != nil {
		return httpx.ErrTokenInvalid
	}
	user, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			s.logger.Error("reset password lookup", slog.Any("error", err))
		}
		return httpx.ErrTokenInvalid
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}
	s.cache.Invalidate(ctx, user.ID)
	return nil
}

// FindPrincipal resolves a verified subject id for the authentication gate,
// reading through the cache.
func (s *Service) FindPrincipal(ctx context.Context, id uuid.UUID) (*auth.Principal, error) {
	user, err := s.cache.Fetch(ctx, id, func(ctx context.Context) (*User, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &auth.Principal{ID: user.ID, Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}

var _ auth.PrincipalSource = (*Service)(nil)

// normalizeName folds display names to NFC so visually identical names
// compare and store identically.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
