package service

import (
	"context"
	"fmt"
	"strings"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

type CityInput struct {
	Name        string `json:"name" validate:"required,max=128"`
	CountryCode string `json:"country_code" validate:"required,len=2"`
}

type CityUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	CountryCode *string `json:"country_code,omitempty" validate:"omitempty,len=2"`
}

type CityService interface {
	List(ctx context.Context) ([]*model.City, error)
	Get(ctx context.Context, id string) (*model.City, error)
	// Create requires the country to exist (ErrInvalidReference otherwise).
	Create(ctx context.Context, in CityInput) (*model.City, error)
	Update(ctx context.Context, id string, in CityUpdate) (*model.City, error)
	Delete(ctx context.Context, id string) error
}

type cityService struct {
	repo repository.Repository
}

func NewCityService(repo repository.Repository) CityService {
	return &cityService{repo: repo}
}

func (s *cityService) List(ctx context.Context) ([]*model.City, error) {
	return listAll[*model.City](ctx, s.repo, model.NameCity)
}

func (s *cityService) Get(ctx context.Context, id string) (*model.City, error) {
	return getOne[*model.City](ctx, s.repo, model.NameCity, id)
}

func (s *cityService) countryCode(ctx context.Context, code string) (string, error) {
	c, err := findCountry(ctx, s.repo, code)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", fmt.Errorf("%w: country %s does not exist", ErrInvalidReference, strings.ToUpper(code))
	}
	return c.Code, nil
}

func (s *cityService) Create(ctx context.Context, in CityInput) (*model.City, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	code, err := s.countryCode(ctx, in.CountryCode)
	if err != nil {
		return nil, err
	}

	c := &model.City{Base: newBase(), Name: in.Name, CountryCode: code}
	if _, err := s.repo.Save(ctx, c); err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func (s *cityService) Update(ctx context.Context, id string, in CityUpdate) (*model.City, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CountryCode != nil {
		code, err := s.countryCode(ctx, *in.CountryCode)
		if err != nil {
			return nil, err
		}
		c.CountryCode = code
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	return update(ctx, s.repo, c)
}

func (s *cityService) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return remove(ctx, s.repo, c)
}
