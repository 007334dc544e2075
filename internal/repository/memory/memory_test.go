package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

func newCity(name string) *model.City {
	return &model.City{Base: model.NewBase("", time.Time{}, time.Time{}), Name: name, CountryCode: "UY"}
}

func TestRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := New()
	city := newCity("Montevideo")

	saved, err := repo.Save(ctx, city)
	require.NoError(t, err)
	assert.Same(t, city, saved)

	got, ok, err := repo.Get(ctx, model.NameCity, city.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, city, got)

	_, ok, err = repo.Get(ctx, model.NameCity, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_SaveIsIdempotentByIdentity(t *testing.T) {
	ctx := context.Background()
	repo := New()
	city := newCity("Salto")

	_, err := repo.Save(ctx, city)
	require.NoError(t, err)
	_, err = repo.Save(ctx, city)
	require.NoError(t, err)

	all, err := repo.GetAll(ctx, model.NameCity)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_SaveRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := New()
	first := newCity("A")
	second := newCity("B")
	second.ID = first.ID

	_, err := repo.Save(ctx, first)
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.True(t, errors.Is(err, repository.ErrDuplicateID))

	all, _ := repo.GetAll(ctx, model.NameCity)
	assert.Len(t, all, 1)
	assert.Same(t, first, all[0])
}

func TestRepository_SaveUnknownModel(t *testing.T) {
	reg := model.NewRegistry()
	reg.Register(model.NameUser, func() model.Entity { return &model.User{} })
	repo := New(WithRegistry(reg))

	_, err := repo.Save(context.Background(), newCity("X"))
	assert.True(t, errors.Is(err, repository.ErrUnknownModel))

	_, err = repo.Save(context.Background(), nil)
	assert.True(t, errors.Is(err, repository.ErrNilEntity))
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := New(WithClock(func() time.Time { return stamp }))
	city := newCity("Old")
	_, err := repo.Save(ctx, city)
	require.NoError(t, err)

	t.Run("replaces and stamps", func(t *testing.T) {
		replacement := &model.City{Base: city.Base, Name: "New", CountryCode: "UY"}

		out, ok, err := repo.Update(ctx, replacement)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, replacement, out)
		assert.True(t, stamp.Equal(out.Meta().UpdatedAt))

		got, _, _ := repo.Get(ctx, model.NameCity, city.ID)
		assert.Equal(t, "New", got.(*model.City).Name)
	})

	t.Run("absent id leaves collection unchanged", func(t *testing.T) {
		before, _ := repo.GetAll(ctx, model.NameCity)
		stranger := newCity("Nowhere")

		out, ok, err := repo.Update(ctx, stranger)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, out)

		after, _ := repo.GetAll(ctx, model.NameCity)
		assert.Equal(t, before, after)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := New()
	city := newCity("Gone")
	_, err := repo.Save(ctx, city)
	require.NoError(t, err)

	t.Run("lookalike is not removed", func(t *testing.T) {
		lookalike := &model.City{Base: city.Base, Name: city.Name, CountryCode: city.CountryCode}
		removed, err := repo.Delete(ctx, lookalike)
		assert.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("delete then get", func(t *testing.T) {
		removed, err := repo.Delete(ctx, city)
		require.NoError(t, err)
		assert.True(t, removed)

		_, ok, _ := repo.Get(ctx, model.NameCity, city.ID)
		assert.False(t, ok)

		removed, err = repo.Delete(ctx, city)
		assert.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestRepository_GetAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := New()
	_, _ = repo.Save(ctx, newCity("A"))

	all, _ := repo.GetAll(ctx, model.NameCity)
	all[0] = nil

	again, _ := repo.GetAll(ctx, model.NameCity)
	assert.NotNil(t, again[0])

	unknown, err := repo.GetAll(ctx, model.Name("spaceship"))
	assert.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestRepository_Reload(t *testing.T) {
	ctx := context.Background()

	t.Run("no seed yields empty store", func(t *testing.T) {
		repo, err := Open(ctx)
		require.NoError(t, err)

		countries, err := repo.GetAll(ctx, model.NameCountry)
		require.NoError(t, err)
		assert.Empty(t, countries)
	})

	t.Run("default seed is idempotent", func(t *testing.T) {
		repo, err := Open(ctx, WithSeed(repository.DefaultSeed))
		require.NoError(t, err)
		_, _ = repo.Save(ctx, newCity("dropped on reload"))

		require.NoError(t, repo.Reload(ctx))
		require.NoError(t, repo.Reload(ctx))

		countries, _ := repo.GetAll(ctx, model.NameCountry)
		require.Len(t, countries, 1)
		assert.Equal(t, "UY", countries[0].(*model.Country).Code)

		cities, _ := repo.GetAll(ctx, model.NameCity)
		assert.Empty(t, cities)
	})

	t.Run("seed failure is reported", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Open(ctx, WithSeed(func(context.Context, repository.Repository) error { return boom }))
		assert.True(t, errors.Is(err, boom))
	})
}

func TestRepository_UniquenessAcrossSaves(t *testing.T) {
	ctx := context.Background()
	repo := New()
	var cities []*model.City
	for i := 0; i < 50; i++ {
		c := newCity("c")
		cities = append(cities, c)
		_, err := repo.Save(ctx, c)
		require.NoError(t, err)
	}
	for _, c := range cities {
		_, _ = repo.Save(ctx, c)
	}

	all, _ := repo.GetAll(ctx, model.NameCity)
	ids := make(map[string]int)
	for _, e := range all {
		ids[e.Meta().ID]++
	}
	assert.Len(t, all, 50)
	for id, n := range ids {
		assert.Equal(t, 1, n, id)
	}
}

func TestRepository_Close(t *testing.T) {
	ctx := context.Background()
	repo := New(WithSeed(repository.DefaultSeed))
	city := newCity("Salto")
	_, err := repo.Save(ctx, city)
	require.NoError(t, err)

	require.NoError(t, repo.Close())

	_, err = repo.GetAll(ctx, model.NameCity)
	assert.ErrorIs(t, err, repository.ErrClosed)
	_, _, err = repo.Get(ctx, model.NameCity, city.ID)
	assert.ErrorIs(t, err, repository.ErrClosed)
	_, err = repo.Save(ctx, newCity("Late"))
	assert.ErrorIs(t, err, repository.ErrClosed)
	_, _, err = repo.Update(ctx, city)
	assert.ErrorIs(t, err, repository.ErrClosed)
	_, err = repo.Delete(ctx, city)
	assert.ErrorIs(t, err, repository.ErrClosed)
	assert.ErrorIs(t, repo.Reload(ctx), repository.ErrClosed, "reload does not reopen")
	assert.ErrorIs(t, repo.Close(), repository.ErrClosed)
}
