package service

import (
	"context"
	"strings"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

type PlaceInput struct {
	Name              string  `json:"name" validate:"required,max=256"`
	Description       string  `json:"description"`
	Address           string  `json:"address"`
	Latitude          float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude         float64 `json:"longitude" validate:"gte=-180,lte=180"`
	HostID            string  `json:"host_id" validate:"required"`
	CityID            string  `json:"city_id" validate:"required"`
	PricePerNight     int     `json:"price_per_night" validate:"gte=0"`
	NumberOfRooms     int     `json:"number_of_rooms" validate:"gte=0"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" validate:"gte=0"`
	MaxGuests         int     `json:"max_guests" validate:"gte=0"`
}

// PlaceUpdate changes only the fields that are set. The host cannot change.
type PlaceUpdate struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Description       *string  `json:"description,omitempty"`
	Address           *string  `json:"address,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	CityID            *string  `json:"city_id,omitempty" validate:"omitempty,min=1"`
	PricePerNight     *int     `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	NumberOfRooms     *int     `json:"number_of_rooms,omitempty" validate:"omitempty,gte=0"`
	NumberOfBathrooms *int     `json:"number_of_bathrooms,omitempty" validate:"omitempty,gte=0"`
	MaxGuests         *int     `json:"max_guests,omitempty" validate:"omitempty,gte=0"`
}

type PlaceService interface {
	List(ctx context.Context) ([]*model.Place, error)
	Get(ctx context.Context, id string) (*model.Place, error)
	// Create requires the host user and the city to exist.
	Create(ctx context.Context, in PlaceInput) (*model.Place, error)
	Update(ctx context.Context, id string, in PlaceUpdate) (*model.Place, error)
	// Delete also removes the place's reviews and amenity links.
	Delete(ctx context.Context, id string) error
}

type placeService struct {
	repo repository.Repository
}

func NewPlaceService(repo repository.Repository) PlaceService {
	return &placeService{repo: repo}
}

func (s *placeService) List(ctx context.Context) ([]*model.Place, error) {
	return listAll[*model.Place](ctx, s.repo, model.NamePlace)
}

func (s *placeService) Get(ctx context.Context, id string) (*model.Place, error) {
	return getOne[*model.Place](ctx, s.repo, model.NamePlace, id)
}

func (s *placeService) requireRef(ctx context.Context, name model.Name, id string) error {
	ok, err := exists(ctx, s.repo, name, id)
	if err != nil {
		return err
	}
	if !ok {
		return invalidRef(name, id)
	}
	return nil
}

func (s *placeService) Create(ctx context.Context, in PlaceInput) (*model.Place, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.requireRef(ctx, model.NameUser, in.HostID); err != nil {
		return nil, err
	}
	if err := s.requireRef(ctx, model.NameCity, in.CityID); err != nil {
		return nil, err
	}

	p := &model.Place{
		Base:              newBase(),
		Name:              in.Name,
		Description:       in.Description,
		Address:           in.Address,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		HostID:            in.HostID,
		CityID:            in.CityID,
		PricePerNight:     in.PricePerNight,
		NumberOfRooms:     in.NumberOfRooms,
		NumberOfBathrooms: in.NumberOfBathrooms,
		MaxGuests:         in.MaxGuests,
	}
	if _, err := s.repo.Save(ctx, p); err != nil {
		return nil, storeErr(err)
	}
	return p, nil
}

func (s *placeService) Update(ctx context.Context, id string, in PlaceUpdate) (*model.Place, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CityID != nil {
		if err := s.requireRef(ctx, model.NameCity, *in.CityID); err != nil {
			return nil, err
		}
		p.CityID = *in.CityID
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	if in.PricePerNight != nil {
		p.PricePerNight = *in.PricePerNight
	}
	if in.NumberOfRooms != nil {
		p.NumberOfRooms = *in.NumberOfRooms
	}
	if in.NumberOfBathrooms != nil {
		p.NumberOfBathrooms = *in.NumberOfBathrooms
	}
	if in.MaxGuests != nil {
		p.MaxGuests = *in.MaxGuests
	}
	return update(ctx, s.repo, p)
}

func (s *placeService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	reviews, err := listWhere(ctx, s.repo, model.NameReview, func(r *model.Review) bool {
		return r.PlaceID == p.ID
	})
	if err != nil {
		return err
	}
	for _, r := range reviews {
		if _, err := s.repo.Delete(ctx, r); err != nil {
			return err
		}
	}
	if err := unlinkAmenities(ctx, s.repo, func(pa *model.PlaceAmenity) bool { return pa.PlaceID == p.ID }); err != nil {
		return err
	}
	return remove(ctx, s.repo, p)
}
