package repository

import (
	"context"
	"time"

	"hbnb/internal/model"
)

// Seeder populates a freshly initialized repository.
type Seeder func(ctx context.Context, repo Repository) error

// DefaultCountries is the reference data loaded by DefaultSeed.
var DefaultCountries = []model.Country{
	{Name: "Uruguay", Code: "UY"},
}

// DefaultSeed stores every DefaultCountries entry whose code is not present yet.
func DefaultSeed(ctx context.Context, repo Repository) error {
	existing, err := repo.GetAll(ctx, model.NameCountry)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, e := range existing {
		if c, ok := e.(*model.Country); ok {
			have[c.Code] = true
		}
	}

	for _, c := range DefaultCountries {
		if have[c.Code] {
			continue
		}
		country := &model.Country{
			Base: model.NewBase("", time.Time{}, time.Time{}),
			Name: c.Name,
			Code: c.Code,
		}
		if _, err := repo.Save(ctx, country); err != nil {
			return err
		}
	}
	return nil
}
