package model

// User is a registered account. PasswordHash is persisted but never rendered over HTTP.
type User struct {
	Base
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

func (*User) ModelName() Name { return NameUser }

// Country is reference data addressed by its ISO code.
type Country struct {
	Base
	Name string `json:"name"`
	Code string `json:"code"`
}

func (*Country) ModelName() Name { return NameCountry }

type City struct {
	Base
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

func (*City) ModelName() Name { return NameCity }

type Place struct {
	Base
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Address           string  `json:"address"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	HostID            string  `json:"host_id"`
	CityID            string  `json:"city_id"`
	PricePerNight     int     `json:"price_per_night"`
	NumberOfRooms     int     `json:"number_of_rooms"`
	NumberOfBathrooms int     `json:"number_of_bathrooms"`
	MaxGuests         int     `json:"max_guests"`
}

func (*Place) ModelName() Name { return NamePlace }

type Review struct {
	Base
	PlaceID string  `json:"place_id"`
	UserID  string  `json:"user_id"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

func (*Review) ModelName() Name { return NameReview }

type Amenity struct {
	Base
	Name string `json:"name"`
}

func (*Amenity) ModelName() Name { return NameAmenity }

// PlaceAmenity links an amenity to a place.
type PlaceAmenity struct {
	Base
	PlaceID   string `json:"place_id"`
	AmenityID string `json:"amenity_id"`
}

func (*PlaceAmenity) ModelName() Name { return NamePlaceAmenity }
