package service

import (
	"context"
	"fmt"
	"strings"

	"hbnb/internal/auth"
	"hbnb/internal/model"
	"hbnb/internal/repository"
)

// UserInput is the payload for creating a user. Password is optional; users
// without one cannot log in.
type UserInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=128"`
	LastName  string `json:"last_name" validate:"max=128"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	IsAdmin   bool   `json:"is_admin"`
}

// UserUpdate changes only the fields that are set.
type UserUpdate struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=128"`
}

type UserService interface {
	List(ctx context.Context) ([]*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	// Create rejects an email that is already registered with ErrConflict.
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Update(ctx context.Context, id string, in UserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) error
	// Authenticate returns the user whose email and password match.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type userService struct {
	repo repository.Repository
}

func NewUserService(repo repository.Repository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	return listAll[*model.User](ctx, s.repo, model.NameUser)
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	return getOne[*model.User](ctx, s.repo, model.NameUser, id)
}

func (s *userService) byEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	existing, err := s.byEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with email %s already exists", ErrConflict, in.Email)
	}

	u := &model.User{
		Base:      newBase(),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsAdmin:   in.IsAdmin,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if _, err := s.repo.Save(ctx, u); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, id string, in UserUpdate) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil && !strings.EqualFold(*in.Email, u.Email) {
		other, err := s.byEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, fmt.Errorf("%w: user with email %s already exists", ErrConflict, *in.Email)
		}
	}

	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	return update(ctx, s.repo, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return remove(ctx, s.repo, u)
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.byEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
