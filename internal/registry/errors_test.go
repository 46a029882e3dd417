package registry_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"creg/internal/registry"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		kind registry.ErrorKind
		name string
	}{
		{registry.DuplicateCreator, "DuplicateCreator"},
		{registry.Unconfirmed, "Unconfirmed"},
		{registry.CreatorNotFound, "CreatorNotFound"},
		{registry.InvalidURL, "InvalidUrl"},
		{registry.ContentNotFound, "ContentNotFound"},
		{registry.InsufficientFunds, "InsufficientFunds"},
		{registry.InvalidAmount, "InvalidAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.NotEmpty(t, tt.kind.Error())

			wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", tt.kind))
			assert.ErrorIs(t, wrapped, tt.kind)

			kind, ok := registry.KindOf(wrapped)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestKindOf_NoKind(t *testing.T) {
	_, ok := registry.KindOf(errors.New("disk full"))
	assert.False(t, ok)

	_, ok = registry.KindOf(nil)
	assert.False(t, ok)
}

func TestErrorKind_Distinct(t *testing.T) {
	assert.False(t, errors.Is(registry.ErrCreatorNotFound, registry.ErrContentNotFound))
	assert.Equal(t, "Unknown", registry.ErrorKind(0).String())
}
