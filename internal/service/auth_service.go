package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pagecraft/internal/domain"
	"pagecraft/internal/repository"
	"pagecraft/internal/store"
)

// AuthService registration and session handling
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a bearer token to its user;
	// domain.ErrNotAuthenticated when missing or expired.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RegisterRequest sign-up form
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	BusinessName    string `json:"businessName" validate:"required,max=120"`
	Niche           string `json:"niche" validate:"required,niche"`
	Website         string `json:"website" validate:"omitempty,url"`
	Language        string `json:"language" validate:"omitempty,oneof=en he"`
}

// LoginRequest sign-in form
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
}

// SessionResponse returned by Register and Login
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type authService struct {
	users      repository.UsersRepository
	sessions   store.KV
	sessionTTL time.Duration
	validate   *validator.Validate
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(users repository.UsersRepository, sessions store.KV, sessionTTL time.Duration, logger *zap.Logger) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		validate:   newValidator(),
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// newValidator reports fields by their json names and knows the niche list.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("niche", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.Niches, fl.Field().String())
	})
	return v
}

// validationError converts validator output to per-field messages.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "invalid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "url":
		return "invalid URL"
	case "niche":
		return "must be one of " + strings.Join(domain.Niches, ", ")
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "invalid value"
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.Website = strings.TrimSpace(req.Website)
	req.Niche = strings.ToLower(strings.TrimSpace(req.Niche))
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		Niche:        req.Niche,
		Website:      req.Website,
		Language:     domain.ParseLanguage(req.Language),
	}
	if _, err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			v := &domain.ValidationError{}
			v.Add("email", "already registered")
			return nil, fmt.Errorf("%w: %w", domain.ErrEmailTaken, v)
		}
		s.logger.Warn("User registration failed", zap.String("email", u.Email), zap.Error(err))
		return nil, backendErr("create user", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", u.UserID),
		zap.String("niche", u.Niche),
		zap.String("language", string(u.Language)),
	)
	return s.startSession(ctx, u)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	u, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("User login failed: unknown email",
				zap.String("ip_address", req.IPAddress),
				zap.String("reason", "invalid_credentials"),
			)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, backendErr("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("User login failed: wrong password",
			zap.String("user_id", u.UserID),
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", "invalid_credentials"),
		)
		return nil, domain.ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

func (s *authService) startSession(ctx context.Context, u *domain.User) (*SessionResponse, error) {
	token := uuid.NewString()
	if err := s.sessions.Set(ctx, store.SessionKey(token), u.UserID, s.sessionTTL); err != nil {
		return nil, backendErr("create session", err)
	}
	return &SessionResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
		User:      u,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, store.SessionKey(token)); err != nil {
		return backendErr("delete session", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	userID, err := s.sessions.Get(ctx, store.SessionKey(token))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, backendErr("load session", err)
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, backendErr("load user", err)
	}
	return u, nil
}
