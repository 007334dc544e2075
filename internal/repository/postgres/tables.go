package postgres

import (
	"hbnb/internal/model"
)

// table maps one model onto its relational table. columns lists the declared
// fields in the order fields returns pointers to them; id, created_at and
// updated_at are handled by the repository for every table.
type table struct {
	name    string
	columns []string
	fields  func(e model.Entity) []any
}

var tables = map[model.Name]table{
	model.NameUser: {
		name:    "users",
		columns: []string{"email", "first_name", "last_name", "password_hash", "is_admin"},
		fields: func(e model.Entity) []any {
			u := e.(*model.User)
			return []any{&u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsAdmin}
		},
	},
	model.NameCountry: {
		name:    "countries",
		columns: []string{"name", "code"},
		fields: func(e model.Entity) []any {
			c := e.(*model.Country)
			return []any{&c.Name, &c.Code}
		},
	},
	model.NameCity: {
		name:    "cities",
		columns: []string{"name", "country_code"},
		fields: func(e model.Entity) []any {
			c := e.(*model.City)
			return []any{&c.Name, &c.CountryCode}
		},
	},
	model.NamePlace: {
		name: "places",
		columns: []string{
			"name", "description", "address", "latitude", "longitude", "host_id", "city_id",
			"price_per_night", "number_of_rooms", "number_of_bathrooms", "max_guests",
		},
		fields: func(e model.Entity) []any {
			p := e.(*model.Place)
			return []any{
				&p.Name, &p.Description, &p.Address, &p.Latitude, &p.Longitude, &p.HostID, &p.CityID,
				&p.PricePerNight, &p.NumberOfRooms, &p.NumberOfBathrooms, &p.MaxGuests,
			}
		},
	},
	model.NameReview: {
		name:    "reviews",
		columns: []string{"place_id", "user_id", "comment", "rating"},
		fields: func(e model.Entity) []any {
			r := e.(*model.Review)
			return []any{&r.PlaceID, &r.UserID, &r.Comment, &r.Rating}
		},
	},
	model.NameAmenity: {
		name:    "amenities",
		columns: []string{"name"},
		fields: func(e model.Entity) []any {
			a := e.(*model.Amenity)
			return []any{&a.Name}
		},
	},
	model.NamePlaceAmenity: {
		name:    "place_amenities",
		columns: []string{"place_id", "amenity_id"},
		fields: func(e model.Entity) []any {
			pa := e.(*model.PlaceAmenity)
			return []any{&pa.PlaceID, &pa.AmenityID}
		},
	},
}

// values dereferences the pointers returned by table.fields.
func values(ptrs []any) []any {
	out := make([]any, len(ptrs))
	for i, p := range ptrs {
		switch v := p.(type) {
		case *string:
			out[i] = *v
		case *int:
			out[i] = *v
		case *float64:
			out[i] = *v
		case *bool:
			out[i] = *v
		default:
			out[i] = p
		}
	}
	return out
}
