package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"dreamcrafts/internal/config"
	"dreamcrafts/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminNotFound      = errors.New("administrator not found")
	ErrAdminExists        = errors.New("administrator already exists")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUsernameRequired   = errors.New("username is required")
)

// dummyHash is a bcrypt hash of a throwaway value. When a login names a
// username that does not exist we still verify against this hash, so response
// timing does not reveal whether the account exists.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// CredentialStoreService owns administrator accounts and password hashing.
type CredentialStoreService struct {
	cfg *config.Config
}

func NewCredentialStoreService(cfg *config.Config) *CredentialStoreService {
	return &CredentialStoreService{cfg: cfg}
}

// FindByUsername returns the administrator or ErrAdminNotFound.
func (s *CredentialStoreService) FindByUsername(username string) (*models.Administrator, error) {
	var admin models.Administrator
	if err := models.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// HashPassword hashes a password using bcrypt
func (s *CredentialStoreService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *CredentialStoreService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// VerifyDummy burns one bcrypt comparison against a fixed hash. Called on the
// user-not-found login path; always returns false.
func (s *CredentialStoreService) VerifyDummy(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password)) == nil
}

// CreateAdministrator provisions a new admin account. Not web-exposed; used
// by the boot-time seed.
func (s *CredentialStoreService) CreateAdministrator(username, password string) (*models.Administrator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(password) < s.cfg.Security.PasswordMinLength {
		return nil, ErrPasswordTooShort
	}

	var existing models.Administrator
	if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrAdminExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.Administrator{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := models.DB.Create(admin).Error; err != nil {
		return nil, err
	}

	return admin, nil
}

// UpdatePassword replaces an administrator's password after validating the
// configured minimum length.
func (s *CredentialStoreService) UpdatePassword(id uint, newPassword string) error {
	if len(newPassword) < s.cfg.Security.PasswordMinLength {
		return ErrPasswordTooShort
	}

	var admin models.Administrator
	if err := models.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	admin.PasswordHash = hashedPassword
	return models.DB.Save(&admin).Error
}

// RecordLogin updates last_login. Best-effort: a failure here must not tear
// down a session that is already established.
func (s *CredentialStoreService) RecordLogin(id uint, at time.Time) {
	if err := models.DB.Model(&models.Administrator{}).Where("id = ?", id).
		Update("last_login", at).Error; err != nil {
		log.Printf("last_login update failed (admin=%d): %v", id, err)
	}
}

// SeedDefaultAdmin creates the configured default administrator if no
// accounts exist yet.
func (s *CredentialStoreService) SeedDefaultAdmin() error {
	if s.cfg.DefaultAdmin.Username == "" || s.cfg.DefaultAdmin.Password == "" {
		return nil
	}

	var count int64
	if err := models.DB.Model(&models.Administrator{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		_, err := s.CreateAdministrator(s.cfg.DefaultAdmin.Username, s.cfg.DefaultAdmin.Password)
		return err
	}

	return nil
}
