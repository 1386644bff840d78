package service

import (
	"context"
	"fmt"

	"pizza-paradise/internal/auth"
	"pizza-paradise/internal/model"
	"pizza-paradise/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo   repository.UserRepository
	couponRepo repository.CouponRepository
	hasher     auth.PasswordHasher
	tokens     *auth.TokenManager
	logger     zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	couponRepo repository.CouponRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo:   userRepo,
		couponRepo: couponRepo,
		hasher:     hasher,
		tokens:     tokens,
		logger:     logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a customer account. An unused ledger row is backfilled
// for every existing coupon in the same transaction, so the new user can
// redeem any of them.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidRequest, "Name, email and password are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, model.ErrEmailRegistered
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	tx, err := s.userRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err = s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err = s.couponRepo.BackfillForUser(ctx, tx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to backfill coupon usage: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("login failed")
		return nil, model.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair. The user
// is re-read so a role change takes effect on the next refresh.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	principal, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, model.ErrInvalidToken
	}

	return s.issueTokens(user)
}

func (s *userService) issueTokens(user *model.User) (*model.LoginResponse, error) {
	access, refresh, err := s.tokens.Issue(model.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		Username:     user.Name,
		Role:         user.Role,
	}, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleUser {
		return model.NewDomainError(model.ErrCodeInvalidRequest, "Unknown role")
	}
	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Str("role", string(role)).Msg("user role updated")
	return nil
}
