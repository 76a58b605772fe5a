package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
	"github.com/lingua-labs/lingua-api/internal/service/auth"
	"github.com/lingua-labs/lingua-api/internal/store"
)

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Role defaults to LEARNER when empty.
	Role domain.Role
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken string
	User        *domain.User
}

// AuthService handles account creation, session issuance and profile lookup.
type AuthService interface {
	// Register creates an account and issues a token for it.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)

	// Login verifies credentials and issues a token.
	// Returns ErrInvalidCredentials or ErrAccountDeactivated.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// GetProfile returns the user with their tutor profile, if any.
	// Returns ErrUserNotFound if the user no longer exists.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type authServiceImpl struct {
	users    store.UserStore
	tutors   store.TutorStore
	tokens   auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserStore,
	tutors store.TutorStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tutors == nil {
		return nil, domain.NewValidationError("tutors", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:    users,
		tutors:   tutors,
		tokens:   tokens,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register implements AuthService.Register.
func (s *authServiceImpl) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Advisory check; the unique index is the real guarantee.
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		log.Debug("registration rejected: email exists")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, opError("auth", "register", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, opError("auth", "register", err)
	}

	user, err := domain.NewUser(strings.ToLower(in.Email), hashed, in.FirstName, in.LastName, in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration lost race on email")
			return nil, ErrEmailTaken
		}
		return nil, opError("auth", "register", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return nil, opError("auth", "register", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return &AuthResult{AccessToken: token, User: user}, nil
}

// Login implements AuthService.Login.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, opError("auth", "login", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Debug("login rejected: account deactivated", slog.String("user_id", user.ID.String()))
		return nil, ErrAccountDeactivated
	}

	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return nil, opError("auth", "login", err)
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	return &AuthResult{AccessToken: token, User: user}, nil
}

// GetProfile implements AuthService.GetProfile.
func (s *authServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, opError("auth", "get_profile", err)
	}

	profile, err := s.tutors.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		user.TutorProfile = profile
	case errors.Is(err, store.ErrTutorProfileNotFound):
		// not a tutor
	default:
		return nil, opError("auth", "get_profile", err)
	}

	return user, nil
}
