package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hbnb/internal/model"
	"hbnb/internal/repository"
	"hbnb/internal/repository/memory"
	repoMocks "hbnb/internal/repository/mocks"
)

type fixture struct {
	repo      *memory.Repository
	users     UserService
	countries CountryService
	cities    CityService
	places    PlaceService
	reviews   ReviewService
	amenities AmenityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := memory.Open(context.Background(), memory.WithSeed(repository.DefaultSeed))
	require.NoError(t, err)
	return &fixture{
		repo:      repo,
		users:     NewUserService(repo),
		countries: NewCountryService(repo),
		cities:    NewCityService(repo),
		places:    NewPlaceService(repo),
		reviews:   NewReviewService(repo),
		amenities: NewAmenityService(repo),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) place(t *testing.T) (*model.User, *model.City, *model.Place) {
	t.Helper()
	ctx := context.Background()
	host, err := f.users.Create(ctx, UserInput{Email: "host@example.com", FirstName: "Ada"})
	require.NoError(t, err)
	city, err := f.cities.Create(ctx, CityInput{Name: "Montevideo", CountryCode: "UY"})
	require.NoError(t, err)
	place, err := f.places.Create(ctx, PlaceInput{Name: "Loft", HostID: host.ID, CityID: city.ID, PricePerNight: 80})
	require.NoError(t, err)
	return host, city, place
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.Create(ctx, UserInput{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.users.Create(ctx, UserInput{Email: "ADA@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := f.users.Create(ctx, UserInput{Email: "nope"})
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "email must be a valid email")
	})

	t.Run("update", func(t *testing.T) {
		got, err := f.users.Update(ctx, u.ID, UserUpdate{FirstName: ptr("Augusta")})
		require.NoError(t, err)
		assert.Equal(t, "Augusta", got.FirstName)
		assert.Equal(t, "Lovelace", got.LastName)
	})

	t.Run("update to taken email", func(t *testing.T) {
		other, err := f.users.Create(ctx, UserInput{Email: "other@example.com"})
		require.NoError(t, err)
		_, err = f.users.Update(ctx, other.ID, UserUpdate{Email: ptr("ada@example.com")})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("authenticate", func(t *testing.T) {
		got, err := f.users.Authenticate(ctx, "ada@example.com", "s3cret!")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = f.users.Authenticate(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = f.users.Authenticate(ctx, "ghost@example.com", "s3cret!")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.users.Delete(ctx, u.ID))
		_, err := f.users.Get(ctx, u.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, f.users.Delete(ctx, u.ID), ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := f.users.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestCountryService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all, err := f.countries.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	uy, err := f.countries.Get(ctx, "uy")
	require.NoError(t, err)
	assert.Equal(t, "Uruguay", uy.Name)

	_, err = f.countries.Get(ctx, "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.cities.Create(ctx, CityInput{Name: "Salto", CountryCode: "UY"})
	require.NoError(t, err)
	cities, err := f.countries.Cities(ctx, "UY")
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Salto", cities[0].Name)
}

func TestCityService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.cities.Create(ctx, CityInput{Name: " Sample ", CountryCode: "uy"})
	require.NoError(t, err)
	assert.Equal(t, "Sample", c.Name)
	assert.Equal(t, "UY", c.CountryCode)

	_, err = f.cities.Create(ctx, CityInput{Name: "Nowhere", CountryCode: "ZZ"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = f.cities.Create(ctx, CityInput{Name: "", CountryCode: "UY"})
	assert.ErrorIs(t, err, ErrValidation)

	before := c.UpdatedAt
	got, err := f.cities.Update(ctx, c.ID, CityUpdate{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.UpdatedAt.Before(before))

	_, err = f.cities.Update(ctx, c.ID, CityUpdate{CountryCode: ptr("ZZ")})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = f.cities.Update(ctx, "missing", CityUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.cities.Delete(ctx, c.ID))
	all, err := f.cities.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPlaceService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	host, city, place := f.place(t)

	assert.Equal(t, host.ID, place.HostID)
	assert.Equal(t, city.ID, place.CityID)

	_, err := f.places.Create(ctx, PlaceInput{Name: "Ghost", HostID: "nobody", CityID: city.ID})
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = f.places.Create(ctx, PlaceInput{Name: "Ghost", HostID: host.ID, CityID: "nowhere"})
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = f.places.Create(ctx, PlaceInput{Name: "Bad", HostID: host.ID, CityID: city.ID, Latitude: 100})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := f.places.Update(ctx, place.ID, PlaceUpdate{MaxGuests: ptr(6), Description: ptr("Sunny")})
	require.NoError(t, err)
	assert.Equal(t, 6, got.MaxGuests)
	assert.Equal(t, "Sunny", got.Description)
	assert.Equal(t, 80, got.PricePerNight)
}

func TestPlaceService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	host, _, place := f.place(t)

	_, err := f.reviews.Create(ctx, ReviewInput{PlaceID: place.ID, UserID: host.ID, Comment: "Nice", Rating: 5})
	require.NoError(t, err)
	wifi, err := f.amenities.Create(ctx, AmenityInput{Name: "Wifi"})
	require.NoError(t, err)
	_, err = f.amenities.AddToPlace(ctx, place.ID, wifi.ID)
	require.NoError(t, err)

	require.NoError(t, f.places.Delete(ctx, place.ID))

	reviews, err := f.repo.GetAll(ctx, model.NameReview)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	links, err := f.repo.GetAll(ctx, model.NamePlaceAmenity)
	require.NoError(t, err)
	assert.Empty(t, links)

	_, err = f.amenities.Get(ctx, wifi.ID)
	assert.NoError(t, err, "amenities outlive places")
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	host, _, place := f.place(t)

	r, err := f.reviews.Create(ctx, ReviewInput{PlaceID: place.ID, UserID: host.ID, Comment: "Great", Rating: 4.5})
	require.NoError(t, err)

	_, err = f.reviews.Create(ctx, ReviewInput{PlaceID: place.ID, UserID: host.ID, Comment: "Meh", Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.reviews.Create(ctx, ReviewInput{PlaceID: "nope", UserID: host.ID, Comment: "?", Rating: 3})
	assert.ErrorIs(t, err, ErrInvalidReference)

	byPlace, err := f.reviews.ListByPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Len(t, byPlace, 1)
	byUser, err := f.reviews.ListByUser(ctx, host.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
	_, err = f.reviews.ListByPlace(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.reviews.Update(ctx, r.ID, ReviewUpdate{Rating: ptr(3.0)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Rating)
	assert.Equal(t, "Great", got.Comment)

	require.NoError(t, f.reviews.Delete(ctx, r.ID))
	all, err := f.reviews.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAmenityService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _, place := f.place(t)

	wifi, err := f.amenities.Create(ctx, AmenityInput{Name: "Wifi"})
	require.NoError(t, err)
	_, err = f.amenities.Create(ctx, AmenityInput{Name: "wifi"})
	assert.ErrorIs(t, err, ErrConflict)

	pool, err := f.amenities.Create(ctx, AmenityInput{Name: "Pool"})
	require.NoError(t, err)
	_, err = f.amenities.Update(ctx, pool.ID, AmenityInput{Name: "WIFI"})
	assert.ErrorIs(t, err, ErrConflict)
	renamed, err := f.amenities.Update(ctx, pool.ID, AmenityInput{Name: "Heated pool"})
	require.NoError(t, err)
	assert.Equal(t, "Heated pool", renamed.Name)

	link, err := f.amenities.AddToPlace(ctx, place.ID, wifi.ID)
	require.NoError(t, err)
	assert.Equal(t, place.ID, link.PlaceID)
	_, err = f.amenities.AddToPlace(ctx, place.ID, wifi.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.amenities.AddToPlace(ctx, place.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := f.amenities.ListForPlace(ctx, place.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, wifi.ID, listed[0].ID)

	require.NoError(t, f.amenities.RemoveFromPlace(ctx, place.ID, wifi.ID))
	assert.ErrorIs(t, f.amenities.RemoveFromPlace(ctx, place.ID, wifi.ID), ErrNotFound)

	_, err = f.amenities.AddToPlace(ctx, place.ID, wifi.ID)
	require.NoError(t, err)
	require.NoError(t, f.amenities.Delete(ctx, wifi.ID))
	listed, err = f.amenities.ListForPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestServices_PropagateRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("backend down")

	t.Run("list", func(t *testing.T) {
		repo := new(repoMocks.MockRepository)
		repo.On("GetAll", ctx, model.NameCity).Return(nil, boom)

		_, err := NewCityService(repo).List(ctx)
		assert.ErrorIs(t, err, boom)
		repo.AssertExpectations(t)
	})

	t.Run("get", func(t *testing.T) {
		repo := new(repoMocks.MockRepository)
		repo.On("Get", ctx, model.NameUser, "u1").Return(nil, false, boom)

		_, err := NewUserService(repo).Get(ctx, "u1")
		assert.ErrorIs(t, err, boom)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate id becomes conflict", func(t *testing.T) {
		repo := new(repoMocks.MockRepository)
		repo.On("GetAll", ctx, model.NameAmenity).Return([]model.Entity{}, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*model.Amenity")).
			Return(nil, &repository.Error{Op: "save", Err: repository.ErrDuplicateID})

		_, err := NewAmenityService(repo).Create(ctx, AmenityInput{Name: "Sauna"})
		assert.ErrorIs(t, err, ErrConflict)
		repo.AssertExpectations(t)
	})

	t.Run("unique column clash becomes conflict", func(t *testing.T) {
		repo := new(repoMocks.MockRepository)
		repo.On("GetAll", ctx, model.NameUser).Return([]model.Entity{}, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*model.User")).
			Return(nil, &repository.Error{Op: "save", Err: repository.ErrUniqueViolation})

		_, err := NewUserService(repo).Create(ctx, UserInput{Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
		repo.AssertExpectations(t)
	})

	t.Run("update reports absent", func(t *testing.T) {
		amenity := &model.Amenity{Base: model.NewBase("a1", time.Time{}, time.Time{}), Name: "Old"}
		repo := new(repoMocks.MockRepository)
		repo.On("Get", ctx, model.NameAmenity, "a1").Return(amenity, true, nil)
		repo.On("GetAll", ctx, model.NameAmenity).Return([]model.Entity{amenity}, nil)
		repo.On("Update", ctx, amenity).Return(nil, false, nil)

		_, err := NewAmenityService(repo).Update(ctx, "a1", AmenityInput{Name: "New"})
		assert.ErrorIs(t, err, ErrNotFound)
		repo.AssertExpectations(t)
	})
}
