package service

import (
	"context"
	"fmt"
	"strings"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

type AmenityInput struct {
	Name string `json:"name" validate:"required,max=128"`
}

type AmenityService interface {
	List(ctx context.Context) ([]*model.Amenity, error)
	Get(ctx context.Context, id string) (*model.Amenity, error)
	// Create rejects a name already in use (case-insensitive) with ErrConflict.
	Create(ctx context.Context, in AmenityInput) (*model.Amenity, error)
	Update(ctx context.Context, id string, in AmenityInput) (*model.Amenity, error)
	// Delete also removes every link to the amenity.
	Delete(ctx context.Context, id string) error

	ListForPlace(ctx context.Context, placeID string) ([]*model.Amenity, error)
	AddToPlace(ctx context.Context, placeID, amenityID string) (*model.PlaceAmenity, error)
	RemoveFromPlace(ctx context.Context, placeID, amenityID string) error
}

type amenityService struct {
	repo repository.Repository
}

func NewAmenityService(repo repository.Repository) AmenityService {
	return &amenityService{repo: repo}
}

func (s *amenityService) List(ctx context.Context) ([]*model.Amenity, error) {
	return listAll[*model.Amenity](ctx, s.repo, model.NameAmenity)
}

func (s *amenityService) Get(ctx context.Context, id string) (*model.Amenity, error) {
	return getOne[*model.Amenity](ctx, s.repo, model.NameAmenity, id)
}

func (s *amenityService) nameTaken(ctx context.Context, name, exceptID string) error {
	all, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, a := range all {
		if a.ID != exceptID && strings.EqualFold(a.Name, name) {
			return fmt.Errorf("%w: amenity %q already exists", ErrConflict, name)
		}
	}
	return nil
}

func (s *amenityService) Create(ctx context.Context, in AmenityInput) (*model.Amenity, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.nameTaken(ctx, in.Name, ""); err != nil {
		return nil, err
	}
	a := &model.Amenity{Base: newBase(), Name: in.Name}
	if _, err := s.repo.Save(ctx, a); err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

func (s *amenityService) Update(ctx context.Context, id string, in AmenityInput) (*model.Amenity, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.nameTaken(ctx, in.Name, a.ID); err != nil {
		return nil, err
	}
	a.Name = in.Name
	return update(ctx, s.repo, a)
}

func (s *amenityService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := unlinkAmenities(ctx, s.repo, func(pa *model.PlaceAmenity) bool { return pa.AmenityID == a.ID }); err != nil {
		return err
	}
	return remove(ctx, s.repo, a)
}

func (s *amenityService) link(ctx context.Context, placeID, amenityID string) (*model.PlaceAmenity, error) {
	links, err := listWhere(ctx, s.repo, model.NamePlaceAmenity, func(pa *model.PlaceAmenity) bool {
		return pa.PlaceID == placeID && pa.AmenityID == amenityID
	})
	if err != nil || len(links) == 0 {
		return nil, err
	}
	return links[0], nil
}

func (s *amenityService) ListForPlace(ctx context.Context, placeID string) ([]*model.Amenity, error) {
	if _, err := getOne[*model.Place](ctx, s.repo, model.NamePlace, placeID); err != nil {
		return nil, err
	}
	links, err := listWhere(ctx, s.repo, model.NamePlaceAmenity, func(pa *model.PlaceAmenity) bool {
		return pa.PlaceID == placeID
	})
	if err != nil {
		return nil, err
	}
	out := make([]*model.Amenity, 0, len(links))
	for _, pa := range links {
		a, ok, err := s.repo.Get(ctx, model.NameAmenity, pa.AmenityID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a.(*model.Amenity))
		}
	}
	return out, nil
}

// AddToPlace links an amenity to a place. Both must exist; linking twice is ErrConflict.
func (s *amenityService) AddToPlace(ctx context.Context, placeID, amenityID string) (*model.PlaceAmenity, error) {
	if _, err := getOne[*model.Place](ctx, s.repo, model.NamePlace, placeID); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, amenityID); err != nil {
		return nil, err
	}
	existing, err := s.link(ctx, placeID, amenityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: amenity %s already linked to place %s", ErrConflict, amenityID, placeID)
	}

	pa := &model.PlaceAmenity{Base: newBase(), PlaceID: placeID, AmenityID: amenityID}
	if _, err := s.repo.Save(ctx, pa); err != nil {
		return nil, storeErr(err)
	}
	return pa, nil
}

func (s *amenityService) RemoveFromPlace(ctx context.Context, placeID, amenityID string) error {
	pa, err := s.link(ctx, placeID, amenityID)
	if err != nil {
		return err
	}
	if pa == nil {
		return fmt.Errorf("%w: amenity %s is not linked to place %s", ErrNotFound, amenityID, placeID)
	}
	return remove(ctx, s.repo, pa)
}

func unlinkAmenities(ctx context.Context, repo repository.Repository, match func(*model.PlaceAmenity) bool) error {
	links, err := listWhere(ctx, repo, model.NamePlaceAmenity, match)
	if err != nil {
		return err
	}
	for _, pa := range links {
		if _, err := repo.Delete(ctx, pa); err != nil {
			return err
		}
	}
	return nil
}
