package mocks

import (
	"context"

	"hbnb/internal/model"
	"hbnb/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCityService struct {
	mock.Mock
}

var _ service.CityService = (*MockCityService)(nil)

func (m *MockCityService) List(ctx context.Context) ([]*model.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.City), args.Error(1)
}

func (m *MockCityService) Get(ctx context.Context, id string) (*model.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityService) Create(ctx context.Context, in service.CityInput) (*model.City, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityService) Update(ctx context.Context, id string, in service.CityUpdate) (*model.City, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
