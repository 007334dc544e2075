// Package service holds the use cases of the API. Services reach storage only
// through the repository handle they are constructed with.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs the struct's validate tags and flattens the failures
// into one ErrValidation message keyed by JSON field name.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func notFound(name model.Name, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, name, id)
}

func invalidRef(name model.Name, id string) error {
	return fmt.Errorf("%w: %s %s does not exist", ErrInvalidReference, name, id)
}

// storeErr translates repository failures into service errors.
func storeErr(err error) error {
	if errors.Is(err, repository.ErrDuplicateID) || errors.Is(err, repository.ErrUniqueViolation) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func listAll[T model.Entity](ctx context.Context, repo repository.Repository, name model.Name) ([]T, error) {
	all, err := repo.GetAll(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, e := range all {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// listWhere is listAll filtered by keep.
func listWhere[T model.Entity](ctx context.Context, repo repository.Repository, name model.Name, keep func(T) bool) ([]T, error) {
	all, err := listAll[T](ctx, repo, name)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func getOne[T model.Entity](ctx context.Context, repo repository.Repository, name model.Name, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrIDRequired
	}
	e, ok, err := repo.Get(ctx, name, id)
	if err != nil {
		return zero, err
	}
	v, isT := e.(T)
	if !ok || !isT {
		return zero, notFound(name, id)
	}
	return v, nil
}

func exists(ctx context.Context, repo repository.Repository, name model.Name, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, ok, err := repo.Get(ctx, name, id)
	return ok, err
}

func update[T model.Entity](ctx context.Context, repo repository.Repository, e T) (T, error) {
	var zero T
	out, ok, err := repo.Update(ctx, e)
	if err != nil {
		return zero, storeErr(err)
	}
	if !ok {
		return zero, notFound(e.ModelName(), e.Meta().ID)
	}
	return out.(T), nil
}

func remove(ctx context.Context, repo repository.Repository, e model.Entity) error {
	ok, err := repo.Delete(ctx, e)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(e.ModelName(), e.Meta().ID)
	}
	return nil
}

func newBase() model.Base {
	return model.NewBase("", time.Time{}, time.Time{})
}

// Services bundles every use case over one repository handle.
type Services struct {
	Users     UserService
	Countries CountryService
	Cities    CityService
	Places    PlaceService
	Reviews   ReviewService
	Amenities AmenityService
}

func New(repo repository.Repository) *Services {
	return &Services{
		Users:     NewUserService(repo),
		Countries: NewCountryService(repo),
		Cities:    NewCityService(repo),
		Places:    NewPlaceService(repo),
		Reviews:   NewReviewService(repo),
		Amenities: NewAmenityService(repo),
	}
}
