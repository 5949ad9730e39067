package service

import (
	"context"
	"strings"

	"medifind-service/internal/apperror"
	"medifind-service/internal/model"
	"medifind-service/prometheus"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials"

type AuthService struct {
	users    UserStore
	tokens   TokenIssuer
	hashCost int
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	prometheus.RecordAuthAttempt("register")

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, apperror.Validation("Please enter all fields")
	}
	if !in.Role.Valid() {
		return nil, apperror.Validation("Invalid role")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		prometheus.RecordAuthError("email_taken")
		return nil, apperror.Conflict("User with this email already exists")
	case !isNotFound(err):
		return nil, apperror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			prometheus.RecordAuthError("email_taken")
			return nil, apperror.Conflict("User with this email already exists")
		}
		return nil, apperror.Internal(err)
	}

	return user, nil
}

// Login checks the password and issues a session token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	prometheus.RecordAuthAttempt("login")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperror.Validation("Please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			prometheus.RecordAuthError("invalid_credentials")
			return "", apperror.Unauthorized(msgInvalidCredentials)
		}
		return "", apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		return "", apperror.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}
