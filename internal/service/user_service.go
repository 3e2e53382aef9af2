package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "agrichain/internal/errors"
	"agrichain/internal/model"
	"agrichain/internal/repository"
)

// UserUpdate enumerates the mutable profile fields. Nil fields are left
// unchanged. Role, email and password are deliberately not here.
type UserUpdate struct {
	Name          *string
	Phone         *string
	Address       *string
	City          *string
	State         *string
	Pincode       *string
	FarmName      *string
	FarmSizeAcres *float64
}

// UserService handles user profile operations.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error)
	UpdateProfile(ctx context.Context, actor *model.User, id uuid.UUID, update UserUpdate) (*model.User, error)
	Deactivate(ctx context.Context, actor *model.User, id uuid.UUID) error
	Reactivate(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.userRepo.List(ctx, filter)
}

// UpdateProfile applies the allow-listed fields. Users may edit their own
// profile; admins may edit anyone's.
func (s *userService) UpdateProfile(ctx context.Context, actor *model.User, id uuid.UUID, update UserUpdate) (*model.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.City != nil {
		user.City = *update.City
	}
	if update.State != nil {
		user.State = *update.State
	}
	if update.Pincode != nil {
		user.Pincode = *update.Pincode
	}
	if update.FarmName != nil {
		user.FarmName = *update.FarmName
	}
	if update.FarmSizeAcres != nil {
		if *update.FarmSizeAcres <= 0 {
			return nil, apperrors.NewValidationError(map[string]string{"farm_size_acres": "must be greater than zero"})
		}
		user.FarmSizeAcres = *update.FarmSizeAcres
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Deactivate soft-deletes a user account. Admin only.
func (s *userService) Deactivate(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	user.Active = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// Reactivate restores a soft-deleted account. Admin only.
func (s *userService) Reactivate(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	user.Active = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}
	return nil
}
