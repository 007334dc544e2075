package service

import (
	"context"
	"strings"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

// CountryService exposes the seeded reference countries. Countries are
// addressed by ISO code, not id.
type CountryService interface {
	List(ctx context.Context) ([]*model.Country, error)
	Get(ctx context.Context, code string) (*model.Country, error)
	Cities(ctx context.Context, code string) ([]*model.City, error)
}

type countryService struct {
	repo repository.Repository
}

func NewCountryService(repo repository.Repository) CountryService {
	return &countryService{repo: repo}
}

func (s *countryService) List(ctx context.Context) ([]*model.Country, error) {
	return listAll[*model.Country](ctx, s.repo, model.NameCountry)
}

func (s *countryService) Get(ctx context.Context, code string) (*model.Country, error) {
	c, err := findCountry(ctx, s.repo, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound(model.NameCountry, code)
	}
	return c, nil
}

func (s *countryService) Cities(ctx context.Context, code string) ([]*model.City, error) {
	c, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return listWhere(ctx, s.repo, model.NameCity, func(city *model.City) bool {
		return strings.EqualFold(city.CountryCode, c.Code)
	})
}

func findCountry(ctx context.Context, repo repository.Repository, code string) (*model.Country, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrIDRequired
	}
	countries, err := listAll[*model.Country](ctx, repo, model.NameCountry)
	if err != nil {
		return nil, err
	}
	for _, c := range countries {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	return nil, nil
}
