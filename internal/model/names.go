package model

// Name is the lowercase key identifying a model's collection.
type Name string

const (
	NameUser         Name = "user"
	NameCountry      Name = "country"
	NameCity         Name = "city"
	NamePlace        Name = "place"
	NameReview       Name = "review"
	NameAmenity      Name = "amenity"
	NamePlaceAmenity Name = "placeamenity"
)

// Names lists every known model in a stable order.
func Names() []Name {
	return []Name{
		NameCountry,
		NameUser,
		NameAmenity,
		NameCity,
		NameReview,
		NamePlace,
		NamePlaceAmenity,
	}
}

func (n Name) String() string { return string(n) }
