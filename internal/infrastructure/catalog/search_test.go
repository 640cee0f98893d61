package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmeals/backend/internal/domain"
)

func ids(foods []domain.FoodItem) []string {
	out := make([]string, len(foods))
	for i, f := range foods {
		out[i] = f.ID
	}
	return out
}

func TestCatalog_Search(t *testing.T) {
	c := loadSeed(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{
			name:  "exact token ties break by name",
			query: "chicken",
			want:  []string{"chicken-nuggets", "grilled-chicken"},
		},
		{
			name:  "more matching tokens rank first",
			query: "grilled chicken",
			want:  []string{"grilled-chicken", "chicken-nuggets"},
		},
		{
			name:  "category bonus and limit",
			query: "milk",
			limit: 2,
			want:  []string{"low-fat-milk", "chocolate-milk"},
		},
		{
			name:  "prefix match",
			query: "straw",
			want:  []string{"strawberries"},
		},
		{
			name:  "case and punctuation are ignored",
			query: "RANCH!!",
			want:  []string{"ranch"},
		},
		{
			name:  "stop words are ignored",
			query: "some eggs for the kids",
			want:  []string{"scrambled-eggs"},
		},
		{
			name:  "short prefixes do not match",
			query: "ch",
			want:  []string{},
		},
		{
			name:  "no match",
			query: "pizza",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(ctx, tt.query, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestCatalog_Search_Errors(t *testing.T) {
	c := loadSeed(t)

	for _, q := range []string{"", "   ", "the and of", "!!!"} {
		_, err := c.Search(context.Background(), q, 5)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Search(%q) error = %v, want ErrInvalidRequest", q, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "apple", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Whole Milk", "whole milk"},
		{"  1% Low-Fat   Milk ", "1 low fat milk"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalize(tt.in))
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"apple", "slices"}, tokenize("The Apple, with slices"))
	assert.Empty(t, tokenize("a the of"))
}
