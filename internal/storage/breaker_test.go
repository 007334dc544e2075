package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hbnb/internal/storage"
	"hbnb/internal/storage/mocks"
)

func TestWithBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through successes", func(t *testing.T) {
		next := new(mocks.MockArchiver)
		next.On("Put", ctx, "snapshots/a.json", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "snapshots/a.json", Size: 2}, nil).Once()

		arch := storage.WithBreaker(next, 2, time.Minute, nil)
		info, err := arch.Put(ctx, "snapshots/a.json", strings.NewReader("{}"), storage.PutObjectOptions{Size: 2})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), info.Size)
		next.AssertExpectations(t)
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		next := new(mocks.MockArchiver)
		next.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("connection refused")).Twice()

		arch := storage.WithBreaker(next, 2, time.Minute, nil)
		for i := 0; i < 2; i++ {
			_, err := arch.Put(ctx, "k", strings.NewReader("{}"), storage.PutObjectOptions{})
			assert.EqualError(t, err, "connection refused")
		}

		_, err := arch.Put(ctx, "k", strings.NewReader("{}"), storage.PutObjectOptions{})
		assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
		next.AssertNumberOfCalls(t, "Put", 2)
	})
}
