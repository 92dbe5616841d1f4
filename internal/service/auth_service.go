package service

import (
	"context"
	"errors"
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrUserInactive       = apperror.Unauthorized("user account is inactive")
	ErrSessionRevoked     = apperror.Unauthorized("session expired, please log in again")
	ErrWrongPassword      = apperror.Invalid("current password is incorrect")
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*Actor, error)
	ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error
	Logout(ctx context.Context, actor Actor) error
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *logger.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Register creates a STAFF account; admins are seeded or created by an admin
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := valueobject.NewPersonName(req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email.String(), nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate("user", "email", email.String())
	}

	user, err := model.NewUser(name, email, req.Password, model.RoleStaff, "self")
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	email, err := valueobject.NewEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		s.log.Warn("login failed", "email", email.String())
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName(), user.Role, user.TokenVersion)
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	s.log.Info("user logged in", "user_id", user.ID)
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToResponse(),
	}, nil
}

// ValidateToken checks the signature, then the user row: it must still be
// active and carry the token version embedded in the claims.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Actor, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.Unauthorized(err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionRevoked
	}

	return &Actor{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
		Role:   user.Role,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error {
	if err := actor.validate(); err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	user.RotateTokenVersion()
	user.UpdatedBy = actor.ID()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("password changed", "user_id", user.ID)
	return nil
}

// Logout revokes every token issued to the actor
func (s *authService) Logout(ctx context.Context, actor Actor) error {
	if err := actor.validate(); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	user.RotateTokenVersion()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.log.Info("user logged out", "user_id", user.ID)
	return nil
}
