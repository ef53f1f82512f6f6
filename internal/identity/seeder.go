package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/security"
	"gorm.io/gorm"
)

// SeedIdentity is one account the seeder guarantees to exist. Password may be
// plaintext or an argon2id hash.
type SeedIdentity struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	FullName string         `json:"full_name"`
	Phone    string         `json:"phone"`
	Role     enums.UserRole `json:"role"`
}

// SeedResult counts what a seeding run changed.
type SeedResult struct {
	Created int
	Updated int
}

type seedStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}

// Seeder upserts an explicit list of identities.
type Seeder struct {
	store    seedStore
	password config.PasswordConfig
	logg     *logger.Logger
}

// NewSeeder builds a Seeder.
func NewSeeder(store seedStore, password config.PasswordConfig, logg *logger.Logger) (*Seeder, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &Seeder{store: store, password: password, logg: logg}, nil
}

// LoadSeedIdentities reads the "identities" list of a JSON seed file.
func LoadSeedIdentities(path string) ([]SeedIdentity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file struct {
		Identities []SeedIdentity `json:"identities"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return file.Identities, nil
}

// Seed creates missing identities and refreshes existing ones. Existing
// accounts are reactivated and get a new hash only when the seeded password
// no longer matches.
func (s *Seeder) Seed(ctx context.Context, identities []SeedIdentity) (SeedResult, error) {
	var result SeedResult
	for i, ident := range identities {
		if err := validateSeed(ident); err != nil {
			return result, fmt.Errorf("identity %d: %w", i, err)
		}
		email := strings.ToLower(strings.TrimSpace(ident.Email))

		existing, err := s.store.FindByEmail(ctx, email)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := s.hashFor(ident.Password)
			if err != nil {
				return result, err
			}
			user := &models.User{
				Email:        email,
				PasswordHash: hash,
				FullName:     ident.FullName,
				Phone:        ident.Phone,
				Role:         ident.Role,
				IsActive:     true,
			}
			if err := s.store.Create(ctx, user); err != nil {
				return result, fmt.Errorf("create %s: %w", email, err)
			}
			result.Created++
			s.logSeed(ctx, email, "created")
		case err != nil:
			return result, fmt.Errorf("lookup %s: %w", email, err)
		default:
			changed, err := s.refresh(existing, ident)
			if err != nil {
				return result, err
			}
			if !changed {
				continue
			}
			if err := s.store.Save(ctx, existing); err != nil {
				return result, fmt.Errorf("update %s: %w", email, err)
			}
			result.Updated++
			s.logSeed(ctx, email, "updated")
		}
	}
	return result, nil
}

func (s *Seeder) refresh(user *models.User, ident SeedIdentity) (bool, error) {
	changed := false
	if user.FullName != ident.FullName {
		user.FullName = ident.FullName
		changed = true
	}
	if ident.Phone != "" && user.Phone != ident.Phone {
		user.Phone = ident.Phone
		changed = true
	}
	if user.Role != ident.Role {
		user.Role = ident.Role
		changed = true
	}
	if !user.IsActive {
		user.IsActive = true
		changed = true
	}

	if security.IsHash(ident.Password) {
		if user.PasswordHash != ident.Password {
			user.PasswordHash = ident.Password
			changed = true
		}
		return changed, nil
	}
	ok, err := security.VerifyPassword(ident.Password, user.PasswordHash)
	if err == nil && ok {
		return changed, nil
	}
	hash, err := s.hashFor(ident.Password)
	if err != nil {
		return false, err
	}
	user.PasswordHash = hash
	return true, nil
}

func (s *Seeder) hashFor(password string) (string, error) {
	if security.IsHash(password) {
		return password, nil
	}
	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *Seeder) logSeed(ctx context.Context, email, action string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"email": email, "action": action}), "identity seeded")
}

func validateSeed(ident SeedIdentity) error {
	if strings.TrimSpace(ident.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if ident.Password == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(ident.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if !ident.Role.IsValid() {
		return fmt.Errorf("invalid role %q", ident.Role)
	}
	return nil
}
