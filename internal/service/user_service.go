package service

import (
	"context"

	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/domain"
	"github.com/aaleksaaleksic/food-ordering-system/internal/repository"
	apperrors "github.com/aaleksaaleksic/food-ordering-system/pkg/util"
)

// UserInput carries the fields accepted when creating or updating a user.
type UserInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Permissions []domain.Permission
}

// UserService manages user accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// BootstrapAdmin seeds the first administrator on an empty install. It is a
// no-op when the credentials are unset or the account already exists.
func (s *UserService) BootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}
	_, err = s.Create(ctx, UserInput{
		FirstName:   "Admin",
		LastName:    "Admin",
		Email:       email,
		Password:    password,
		Permissions: domain.AllPermissions(),
	})
	return err
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create stores a new user. A taken email is a conflict, not a validation
// failure, so clients can show the dedicated duplicate-email message.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	taken, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("email already in use", map[string]any{"email": input.Email})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Permissions:  input.Permissions,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes profile fields and the permission set. The password is only
// rehashed when a new one is supplied.
func (s *UserService) Update(ctx context.Context, id int64, input UserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": input.Email})
		}
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email
	user.Permissions = input.Permissions
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
