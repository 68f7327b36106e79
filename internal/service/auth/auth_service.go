package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Incorrect username or password")

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, username string) (string, error)
}

type RegisterInput struct {
	Username    string `validate:"required,min=3,max=50"`
	Email       string `validate:"required,email,max=100"`
	Password    string `validate:"required,min=6"`
	FullName    string `validate:"max=100"`
	PhoneNumber string `validate:"max=20"`
}

type AuthService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	validate   *validator.Validate
	bcryptCost int
}

type AuthServiceOption func(*AuthService)

func WithBcryptCost(cost int) AuthServiceOption {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		validate:   validator.New(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, domain.InvalidArgumentf("Username already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.InvalidArgumentf("Username or email already registered")
		}
		return nil, err
	}

	log.Printf("user registered id=%d username=%s", user.ID, user.Username)
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(user.ID, user.Username)
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.User, error) {
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if err := s.validate.Var(email, "required,email,max=100"); err != nil {
			return nil, domain.InvalidArgumentf("email: invalid email address")
		}
		if err := s.ensureEmailFree(ctx, email, userID); err != nil {
			return nil, err
		}
		update.Email = &email
	}
	return s.users.Update(ctx, userID, update)
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string, owner int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != owner:
		return domain.InvalidArgumentf("Email already registered")
	case err == nil, errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.InvalidArgumentf("%v", err)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.InvalidArgumentf("%s is required", field)
	case "email":
		return domain.InvalidArgumentf("%s: invalid email address", field)
	case "min":
		return domain.InvalidArgumentf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return domain.InvalidArgumentf("%s must be at most %s characters", field, fe.Param())
	default:
		return domain.InvalidArgumentf("%s is invalid", field)
	}
}

var _ AuthUseCase = (*AuthService)(nil)
