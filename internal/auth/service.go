package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode"

	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("user not found")
	ErrActivationNotFound = errors.New("activation code not found")
)

type DBLayer interface {
	CreateUser(user models.User) error
	GetUserByID(id string) (*models.User, error)
	GetActiveUserByIdentifier(identifier string) (*models.User, error)
	GetUserByActivationCode(code string) (*models.User, error)
	UpdateUser(user models.User) error
}

type Service struct {
	DB          DBLayer
	Tokens      *TokenManager
	passwordKey []byte
}

func NewService(db DBLayer, tokens *TokenManager, passwordKey string) *Service {
	return &Service{DB: db, Tokens: tokens, passwordKey: []byte(passwordKey)}
}

// Encrypt derives the stored credential from a plaintext password. Login
// compares encrypted values, so the key must stay stable across deploys.
func (s *Service) Encrypt(password string) string {
	mac := hmac.New(sha256.New, s.passwordKey)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

func checkPasswordRules(password string) *validation.FieldError {
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return &validation.FieldError{Field: "password", Detail: "Contains at least one uppercase letter"}
	}
	if !hasDigit {
		return &validation.FieldError{Field: "password", Detail: "Contains at least one number"}
	}
	return nil
}

func (s *Service) Register(req models.RegisterRequest) (*models.User, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}
	if ferr := checkPasswordRules(req.Password); ferr != nil {
		return nil, ferr
	}

	user := models.User{
		ID:             uuid.NewString(),
		Fullname:       req.Fullname,
		Username:       req.Username,
		Email:          req.Email,
		Password:       s.Encrypt(req.Password),
		Role:           models.RoleMember,
		ProfilePicture: "user.jpg",
		IsActive:       false,
		ActivationCode: utils.GenerateActivationCode(),
		CreatedAt:      time.Now(),
	}

	if err := s.DB.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Login resolves the identifier against active accounts and mints a token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(req models.LoginRequest) (string, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return "", ferr
	}

	user, err := s.DB.GetActiveUserByIdentifier(req.Identifier)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if s.Encrypt(req.Password) != user.Password {
		return "", ErrInvalidCredentials
	}

	return s.Tokens.Generate(user.ID, user.Role)
}

func (s *Service) Me(userID string) (*models.User, error) {
	return s.DB.GetUserByID(userID)
}

func (s *Service) Activate(code string) (*models.User, error) {
	user, err := s.DB.GetUserByActivationCode(code)
	if err != nil {
		return nil, ErrActivationNotFound
	}

	user.IsActive = true
	user.UpdatedAt = time.Now()
	if err := s.DB.UpdateUser(*user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	return user, nil
}
