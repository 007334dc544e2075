package mocks

import (
	"context"

	"hbnb/internal/model"
	"hbnb/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ repository.Repository = (*MockRepository)(nil)

func (m *MockRepository) GetAll(ctx context.Context, name model.Name) ([]model.Entity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entity), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, name model.Name, id string) (model.Entity, bool, error) {
	args := m.Called(ctx, name, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(model.Entity), args.Bool(1), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, e model.Entity) (model.Entity, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Entity), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, e model.Entity) (model.Entity, bool, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(model.Entity), args.Bool(1), args.Error(2)
}

func (m *MockRepository) Delete(ctx context.Context, e model.Entity) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
