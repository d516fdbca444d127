package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

// IdentityService implémente ports.IdentityService.
type IdentityService struct {
	repo          ports.UserRepository
	hasher        ports.PasswordHasher
	tokenProvider ports.TokenProvider
	broker        ports.EventPublisher
}

func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	token ports.TokenProvider,
	broker ports.EventPublisher,
) *IdentityService {
	return &IdentityService{
		repo:          repo,
		hasher:        hasher,
		tokenProvider: token,
		broker:        broker,
	}
}

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (resp *ports.AuthResponse, err error) {
	defer func() { authAttempts.WithLabelValues("register", resultLabel(err, isIdentityRejection)).Inc() }()

	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}

	// Vérifications "soft" : la contrainte UNIQUE en base reste la garantie finale.
	if _, err := s.repo.GetByUsername(ctx, cmd.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := s.repo.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Username, cmd.Email, hashed, cmd.FirstName, cmd.LastName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	resp, err = s.issue(user)
	if err != nil {
		// User créé mais tokens échoués : le client refera un login.
		return nil, err
	}

	// Best effort, on ne bloque pas l'inscription si le broker est down.
	if err := s.broker.PublishUserRegistered(ctx, user); err != nil {
		slog.WarnContext(ctx, "failed to publish user registered", "username", user.Username, "error", err)
	}
	return resp, nil
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (resp *ports.AuthResponse, err error) {
	defer func() { authAttempts.WithLabelValues("login", resultLabel(err, isIdentityRejection)).Inc() }()

	user, err := s.repo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// On ne dit pas au client si c'est le username ou le mot de passe.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		slog.InfoContext(ctx, "login rejected", "username", cmd.Username, "ip", cmd.IP)
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *IdentityService) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	username, err := s.tokenProvider.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *IdentityService) ValidateToken(_ context.Context, token string) (string, error) {
	username, err := s.tokenProvider.Validate(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	return username, nil
}

func (s *IdentityService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *IdentityService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.repo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}

	if cmd.Email != nil {
		other, err := s.repo.GetByEmail(ctx, *cmd.Email)
		if err == nil && other.Username != user.Username {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	if err := user.UpdateProfile(cmd.DisplayName, cmd.Email, cmd.ProfileImage); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("repository update failed: %w", err)
	}
	return user, nil
}

// ListUsers lit limit+1 lignes pour savoir s'il reste une page.
func (s *IdentityService) ListUsers(ctx context.Context, viewer, after string, limit int) (*ports.UserPage, error) {
	limit = clampLimit(limit)
	users, err := s.repo.List(ctx, viewer, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	page := &ports.UserPage{Users: users}
	if len(users) > limit {
		page.Users = users[:limit]
		page.Next = page.Users[limit-1].Username
	}
	return page, nil
}

func (s *IdentityService) issue(user *domain.User) (*ports.AuthResponse, error) {
	access, refresh, err := s.tokenProvider.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}
	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokenProvider.AccessTTL(),
	}, nil
}

func isIdentityRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidCredentials) ||
		errors.Is(err, domain.ErrUsernameTaken) ||
		errors.Is(err, domain.ErrEmailAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidUsername) ||
		errors.Is(err, domain.ErrReservedUsername) ||
		errors.Is(err, domain.ErrPasswordTooShort)
}
