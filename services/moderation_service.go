// Package services: services/moderation_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"club-portal/logger"
	"club-portal/mirror"
	"club-portal/models"
	"club-portal/store"
)

// Moderation outcomes surfaced to callers.
var (
	ErrMissingFields      = errors.New("please fill in all required fields")
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAwaitingApproval   = errors.New("your registration is awaiting approval")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAlreadyApproved    = errors.New("account is already approved")
)

// RegistrationForm carries the self-registration input.
type RegistrationForm struct {
	Name     string
	Email    string
	Phone    string
	Password string
	ImageURL string
}

// AuthResult is a successful authentication.
type AuthResult struct {
	AccountID string
	Name      string
	Email     string
	Role      string
}

// ModerationServiceInterface is the registration -> pending -> approve/reject
// pipeline.
type ModerationServiceInterface interface {
	Register(ctx context.Context, form RegistrationForm) (models.Account, error)
	Authenticate(ctx context.Context, email, password string) (AuthResult, error)
	Approve(ctx context.Context, accountID string) error
	Reject(ctx context.Context, accountID string) error
	SeedAdmin(ctx context.Context, email, password string) error
}

// ModerationService implements the pipeline against the store, reading
// current state through the mirror.
type ModerationService struct {
	store  store.Store
	mirror *mirror.Mirror
}

// NewModerationService creates a ModerationService.
func NewModerationService(s store.Store, m *mirror.Mirror) *ModerationService {
	return &ModerationService{store: s, mirror: m}
}

// Register validates the form, rejects duplicate emails and creates a
// pending Account. The password is bcrypt-hashed before anything is written.
func (s *ModerationService) Register(ctx context.Context, form RegistrationForm) (models.Account, error) {
	if form.Name == "" || form.Email == "" || form.Password == "" {
		return models.Account{}, ErrMissingFields
	}
	for _, existing := range s.mirror.Accounts() {
		if existing.Email == form.Email {
			logger.Warn.Printf("[Register] duplicate email rejected: %s", form.Email)
			return models.Account{}, ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	image := form.ImageURL
	if image == "" {
		image = models.DefaultAvatarURL
	}
	account := models.Account{
		ID:           s.store.AllocateID(mirror.KeyAccounts),
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		PasswordHash: string(hash),
		Status:       models.StatusPending,
		Role:         models.RoleUser,
		ImageURL:     image,
		CreatedAt:    time.Now(),
	}
	if err := s.store.WriteFull(ctx, mirror.KeyAccounts+"/"+account.ID, account); err != nil {
		logger.Error.Printf("[Register] failed to create account for %s: %v", form.Email, err)
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	logger.Info.Printf("[Register] pending account %s created for %s", account.ID, account.Email)
	return account, nil
}

// Authenticate checks credentials against known accounts. Outcomes are kept
// distinct: wrong email or password, correct credentials still pending, and
// success with the account's role.
func (s *ModerationService) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	_ = ctx
	for _, account := range s.mirror.Accounts() {
		if account.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
			logger.Warn.Printf("[Authenticate] wrong password for %s", email)
			return AuthResult{}, ErrInvalidCredentials
		}
		if account.Status == models.StatusPending {
			logger.Info.Printf("[Authenticate] pending account %s tried to log in", account.ID)
			return AuthResult{}, ErrAwaitingApproval
		}
		logger.Info.Printf("[Authenticate] %s logged in with role=%s", account.Email, account.Role)
		return AuthResult{
			AccountID: account.ID,
			Name:      account.Name,
			Email:     account.Email,
			Role:      account.Role,
		}, nil
	}
	logger.Warn.Printf("[Authenticate] unknown email %s", email)
	return AuthResult{}, ErrInvalidCredentials
}

// Approve promotes a pending account and materializes it as a general
// member. The two writes are issued sequentially and are individually
// idempotent: the member record id is derived from the account id, so a
// redrive after a partial failure can never produce a second Person.
func (s *ModerationService) Approve(ctx context.Context, accountID string) error {
	account, ok := s.findAccount(accountID)
	if !ok {
		return ErrAccountNotFound
	}
	if account.Status == models.StatusApproved && s.memberExists(accountID) {
		return ErrAlreadyApproved
	}

	if account.Status == models.StatusPending {
		path := mirror.KeyAccounts + "/" + accountID
		if err := s.store.UpdateFields(ctx, path, map[string]any{"status": models.StatusApproved}); err != nil {
			logger.Error.Printf("[Approve] status update failed for account %s: %v", accountID, err)
			return fmt.Errorf("approve account: %w", err)
		}
	}

	image := account.ImageURL
	if image == "" {
		image = models.DefaultAvatarURL
	}
	person := models.Person{
		ID:        MemberIDForAccount(accountID),
		Name:      account.Name,
		Phone:     account.Phone,
		Role:      "General Member",
		ImageURL:  image,
		CreatedAt: time.Now(),
	}
	if err := s.store.WriteFull(ctx, mirror.KeyMembers+"/"+person.ID, person); err != nil {
		// The account stays approved with no member record; re-invoking
		// Approve redrives only this write.
		logger.Error.Printf("[Approve] materialize failed for account %s: %v", accountID, err)
		return fmt.Errorf("materialize member: %w", err)
	}
	logger.Info.Printf("[Approve] account %s approved, member %s created", accountID, person.ID)
	return nil
}

// Reject deletes a pending account outright. No member record is created and
// the deletion is irreversible.
func (s *ModerationService) Reject(ctx context.Context, accountID string) error {
	if _, ok := s.findAccount(accountID); !ok {
		return ErrAccountNotFound
	}
	if err := s.store.WriteFull(ctx, mirror.KeyAccounts+"/"+accountID, nil); err != nil {
		logger.Error.Printf("[Reject] failed to delete account %s: %v", accountID, err)
		return fmt.Errorf("reject account: %w", err)
	}
	logger.Info.Printf("[Reject] account %s removed", accountID)
	return nil
}

// SeedAdmin ensures an approved administrator account exists for the
// configured credentials. It goes through the same account table as everyone
// else; there is no credential bypass in Authenticate.
func (s *ModerationService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		logger.Warn.Println("[SeedAdmin] no admin credentials configured, skipping")
		return nil
	}
	for _, account := range s.mirror.Accounts() {
		if account.Email == email {
			return nil
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Account{
		ID:           s.store.AllocateID(mirror.KeyAccounts),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Status:       models.StatusApproved,
		Role:         models.RoleAdmin,
		ImageURL:     models.DefaultAvatarURL,
		CreatedAt:    time.Now(),
	}
	if err := s.store.WriteFull(ctx, mirror.KeyAccounts+"/"+admin.ID, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info.Printf("[SeedAdmin] created admin account %s", admin.ID)
	return nil
}

// MemberIDForAccount derives the member record id materialized for an
// account. Deterministic on purpose: it is what makes Approve redrivable.
func MemberIDForAccount(accountID string) string {
	return "mbr-" + accountID
}

func (s *ModerationService) findAccount(id string) (models.Account, bool) {
	for _, account := range s.mirror.Accounts() {
		if account.ID == id {
			return account, true
		}
	}
	return models.Account{}, false
}

func (s *ModerationService) memberExists(accountID string) bool {
	want := MemberIDForAccount(accountID)
	for _, person := range s.mirror.Members() {
		if person.ID == want {
			return true
		}
	}
	return false
}
