package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"creg/internal/registry"
)

func TestIsApproved(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{name: "clean", description: "Un documental sobre naturaleza", want: true},
		{name: "banned term", description: "Contiene violencia", want: false},
		{name: "upper case", description: "ODIO a los lunes", want: false},
		{name: "accented term", description: "nada de Pornografía aquí", want: false},
		{name: "substring inside word", description: "el custodio del museo", want: false},
		{name: "empty", description: "", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := registry.ContentItem{Title: "T", Description: tt.description}
			assert.Equal(t, tt.want, registry.IsApproved(item))
		})
	}
}

func TestIsApproved_IgnoresTitleAndURL(t *testing.T) {
	item := registry.ContentItem{
		Title:       "violencia",
		Description: "Un documental",
		FileURL:     "https://example.com/odio",
	}
	assert.True(t, registry.IsApproved(item))
}

func TestModerationFilter_ExtraTerms(t *testing.T) {
	filter := registry.NewModerationFilter("  Spam ", "", "odio", "SPAM")

	assert.Equal(t, []string{"pornografía", "violencia", "odio", "spam"}, filter.Terms())
	assert.False(t, filter.IsApproved(registry.ContentItem{Description: "pure spam"}))
	assert.False(t, filter.IsApproved(registry.ContentItem{Description: "violencia"}))
	assert.True(t, filter.IsApproved(registry.ContentItem{Description: "fine"}))

	// The default filter is unaffected.
	assert.True(t, registry.IsApproved(registry.ContentItem{Description: "pure spam"}))
}

func TestModerationFilter_TermsIsACopy(t *testing.T) {
	filter := registry.NewModerationFilter()
	terms := filter.Terms()
	terms[0] = "changed"
	assert.Equal(t, "pornografía", filter.Terms()[0])
}
