package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"partsdepot/internal/adapters/persistence/models"
	"partsdepot/internal/adapters/persistence/repositories"
	"partsdepot/internal/core/domain"
	"partsdepot/internal/pkg/password"
)

// User service errors
var (
	ErrUserNotFoundSvc     = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrCannotDisableSelf   = errors.New("cannot deactivate your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrInvalidRole         = errors.New("invalid role")
)

// UserService handles user management business logic
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
}

// UpdateUserByAdminInput represents update user input (for admin)
type UpdateUserByAdminInput struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (*ListUsersOutput, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	return &ListUsersOutput{
		Users: userResponses,
		Total: total,
	}, nil
}

// GetUser gets one user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserByAdmin applies admin edits to a user's role or active
// flag. Deactivating an account takes effect on the user's very next
// request: the auth middleware re-checks the flag every time. Admins
// cannot edit their own role or deactivate themselves.
func (s *UserService) UpdateUserByAdmin(ctx context.Context, actorID, targetID uint, input *UpdateUserByAdminInput) (*models.User, error) {
	user, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if actorID == targetID {
			return nil, ErrCannotChangeOwnRole
		}
		role := domain.Role(*input.Role)
		if !role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = string(role)
	}

	if input.IsActive != nil {
		if actorID == targetID && !*input.IsActive {
			return nil, ErrCannotDisableSelf
		}
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// A deactivated user keeps no live sessions.
	if !user.IsActive {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ User %d updated by admin %d", targetID, actorID)
	return user, nil
}

// ChangePassword verifies the old password, stores the new hash, and
// revokes every refresh token so all other sessions must log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if !password.Validate(input.NewPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user ID: %d", userID)
	return nil
}
