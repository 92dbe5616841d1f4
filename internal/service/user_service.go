package service

import (
	"context"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/valueobject"

	"github.com/google/uuid"
)

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProfileRequest) (*model.UserResponse, error)
	DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Role      string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
}

type userService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log *logger.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*model.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
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

	user, err := model.NewUser(name, email, req.Password, req.Role, actor.ID())
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", "user_id", user.ID, "role", user.Role, "by", actor.Email)
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateProfile is allowed for admins and for the user themself
func (s *userService) UpdateProfile(ctx context.Context, actor Actor, id uuid.UUID, req UpdateProfileRequest) (*model.UserResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, apperror.Forbidden("cannot update another user's profile")
	}
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

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email != email.String() {
		exists, err := s.userRepo.ExistsByEmail(ctx, email.String(), &user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Duplicate("user", "email", email.String())
		}
	}

	user.UpdateProfile(name, email, actor.ID())
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user profile updated", "user_id", user.ID, "by", actor.Email)
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) (*model.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, apperror.Invalid("cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsActive {
		user.Deactivate(actor.ID())
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("user deactivated", "user_id", user.ID, "by", actor.Email)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func requireAdmin(actor Actor) error {
	if err := actor.validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperror.Forbidden("admin role required")
	}
	return nil
}
