package service

import (
	"context"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

type ReviewInput struct {
	PlaceID string  `json:"place_id" validate:"required"`
	UserID  string  `json:"user_id" validate:"required"`
	Comment string  `json:"comment" validate:"required"`
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
}

type ReviewUpdate struct {
	Comment *string  `json:"comment,omitempty" validate:"omitempty,min=1"`
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}

type ReviewService interface {
	List(ctx context.Context) ([]*model.Review, error)
	Get(ctx context.Context, id string) (*model.Review, error)
	// ListByPlace returns ErrNotFound when the place does not exist.
	ListByPlace(ctx context.Context, placeID string) ([]*model.Review, error)
	// ListByUser returns ErrNotFound when the user does not exist.
	ListByUser(ctx context.Context, userID string) ([]*model.Review, error)
	// Create requires the user and the place to exist.
	Create(ctx context.Context, in ReviewInput) (*model.Review, error)
	Update(ctx context.Context, id string, in ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, id string) error
}

type reviewService struct {
	repo repository.Repository
}

func NewReviewService(repo repository.Repository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) List(ctx context.Context) ([]*model.Review, error) {
	return listAll[*model.Review](ctx, s.repo, model.NameReview)
}

func (s *reviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	return getOne[*model.Review](ctx, s.repo, model.NameReview, id)
}

func (s *reviewService) ListByPlace(ctx context.Context, placeID string) ([]*model.Review, error) {
	if _, err := getOne[*model.Place](ctx, s.repo, model.NamePlace, placeID); err != nil {
		return nil, err
	}
	return listWhere(ctx, s.repo, model.NameReview, func(r *model.Review) bool { return r.PlaceID == placeID })
}

func (s *reviewService) ListByUser(ctx context.Context, userID string) ([]*model.Review, error) {
	if _, err := getOne[*model.User](ctx, s.repo, model.NameUser, userID); err != nil {
		return nil, err
	}
	return listWhere(ctx, s.repo, model.NameReview, func(r *model.Review) bool { return r.UserID == userID })
}

func (s *reviewService) Create(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	for _, ref := range []struct {
		name model.Name
		id   string
	}{{model.NameUser, in.UserID}, {model.NamePlace, in.PlaceID}} {
		ok, err := exists(ctx, s.repo, ref.name, ref.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidRef(ref.name, ref.id)
		}
	}

	r := &model.Review{
		Base:    newBase(),
		PlaceID: in.PlaceID,
		UserID:  in.UserID,
		Comment: in.Comment,
		Rating:  in.Rating,
	}
	if _, err := s.repo.Save(ctx, r); err != nil {
		return nil, storeErr(err)
	}
	return r, nil
}

func (s *reviewService) Update(ctx context.Context, id string, in ReviewUpdate) (*model.Review, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Comment != nil {
		r.Comment = *in.Comment
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	return update(ctx, s.repo, r)
}

func (s *reviewService) Delete(ctx context.Context, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return remove(ctx, s.repo, r)
}
