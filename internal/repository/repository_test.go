package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"db", KindDatabase},
		{"DB", KindDatabase},
		{"file", KindFile},
		{" file ", KindFile},
		{"memory", KindMemory},
		{"", KindMemory},
		{"redis", KindMemory},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.in))
		})
	}
}

func TestError(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Op: "flush", Model: "city", ID: "42", Err: cause}

	assert.Equal(t, "flush city 42: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))

	var repoErr *Error
	assert.True(t, errors.As(error(err), &repoErr))
	assert.Equal(t, "flush", repoErr.Op)
}
