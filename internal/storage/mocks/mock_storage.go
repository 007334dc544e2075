package mocks

import (
	"context"
	"io"

	"hbnb/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}
