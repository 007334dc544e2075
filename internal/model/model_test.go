package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBase(t *testing.T) {
	t.Run("generates id and timestamps", func(t *testing.T) {
		b := NewBase("", time.Time{}, time.Time{})

		_, err := uuid.Parse(b.ID)
		assert.NoError(t, err)
		assert.False(t, b.CreatedAt.IsZero())
		assert.False(t, b.UpdatedAt.IsZero())
		assert.Equal(t, time.UTC, b.CreatedAt.Location())
	})

	t.Run("honors supplied values", func(t *testing.T) {
		created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		updated := created.Add(time.Hour)

		b := NewBase("fixed-id", created, updated)

		assert.Equal(t, "fixed-id", b.ID)
		assert.True(t, created.Equal(b.CreatedAt))
		assert.True(t, updated.Equal(b.UpdatedAt))
	})

	t.Run("ids do not repeat", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			b := NewBase("", time.Time{}, time.Time{})
			_, dup := seen[b.ID]
			require.False(t, dup)
			seen[b.ID] = struct{}{}
		}
	})
}

func TestTouch(t *testing.T) {
	b := NewBase("", time.Time{}, time.Time{})
	later := time.Date(2030, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))

	b.Touch(later)

	assert.True(t, later.Equal(b.UpdatedAt))
	assert.Equal(t, time.UTC, b.UpdatedAt.Location())
}

func TestRegistry_RoundTrip(t *testing.T) {
	reg := DefaultRegistry()
	ts := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC)

	entities := []Entity{
		&User{Base: NewBase("", ts, ts), Email: "a@b.c", FirstName: "Ada", LastName: "L", PasswordHash: "x"},
		&Country{Base: NewBase("", ts, ts), Name: "Uruguay", Code: "UY"},
		&City{Base: NewBase("", ts, ts.Add(time.Minute)), Name: "Sample", CountryCode: "UY"},
		&Place{Base: NewBase("", ts, ts), Name: "Cottage", Latitude: 34.05, Longitude: -118.24, HostID: "h", CityID: "c", PricePerNight: 100, MaxGuests: 4},
		&Review{Base: NewBase("", ts, ts), PlaceID: "p", UserID: "u", Comment: "nice", Rating: 4.5},
		&Amenity{Base: NewBase("", ts, ts), Name: "Wifi"},
		&PlaceAmenity{Base: NewBase("", ts, ts), PlaceID: "p", AmenityID: "a"},
	}

	for _, e := range entities {
		t.Run(e.ModelName().String(), func(t *testing.T) {
			first, err := ToDict(e)
			require.NoError(t, err)
			assert.Equal(t, e.Meta().ID, first["id"])
			assert.Equal(t, "2024-05-06T07:08:09.123456789Z", first["created_at"])

			rebuilt, err := reg.FromDict(e.ModelName(), first)
			require.NoError(t, err)
			assert.IsType(t, e, rebuilt)

			second, err := ToDict(rebuilt)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestRegistry_Decode(t *testing.T) {
	reg := DefaultRegistry()

	t.Run("rejects undeclared fields", func(t *testing.T) {
		_, err := reg.Decode(NameCity, []byte(`{"id":"1","name":"x","country_code":"UY","mayor":"y"}`))
		assert.True(t, errors.Is(err, ErrMalformedRecord))
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := reg.Decode(Name("spaceship"), []byte(`{}`))
		assert.True(t, errors.Is(err, ErrUnknownModel))
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := reg.Decode(NameAmenity, []byte(`{"id":"1","name":"x","created_at":"yesterday"}`))
		assert.True(t, errors.Is(err, ErrMalformedRecord))
	})

	t.Run("zone-less timestamps are UTC", func(t *testing.T) {
		e, err := reg.Decode(NameAmenity, []byte(`{"id":"1","name":"x","created_at":"2024-01-02T03:04:05.600000","updated_at":"2024-01-02T03:04:05"}`))
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC).Equal(e.Meta().CreatedAt))
		assert.Equal(t, "1", e.Meta().ID)
	})

	t.Run("missing id and timestamps are generated", func(t *testing.T) {
		e, err := reg.Decode(NameAmenity, []byte(`{"name":"Pool"}`))
		require.NoError(t, err)
		assert.NotEmpty(t, e.Meta().ID)
		assert.False(t, e.Meta().CreatedAt.IsZero())
		assert.Equal(t, "Pool", e.(*Amenity).Name)
	})

	t.Run("stored records need an id", func(t *testing.T) {
		_, err := reg.DecodeStored(NameAmenity, []byte(`{"name":"Pool"}`))
		assert.True(t, errors.Is(err, ErrMalformedRecord))

		_, err = reg.DecodeStored(NameAmenity, []byte(`{"id":"","name":"Pool"}`))
		assert.True(t, errors.Is(err, ErrMalformedRecord))

		e, err := reg.DecodeStored(NameAmenity, []byte(`{"id":"a1","name":"Pool"}`))
		require.NoError(t, err)
		assert.Equal(t, "a1", e.Meta().ID)
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := DefaultRegistry()

	assert.ElementsMatch(t, Names(), reg.Names())
	for _, n := range Names() {
		assert.True(t, reg.Has(n))
		e, err := reg.New(n)
		require.NoError(t, err)
		assert.Equal(t, n, e.ModelName())
	}
	assert.False(t, reg.Has("spaceship"))
}
