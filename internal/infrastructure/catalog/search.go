package catalog

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/kidmeals/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

const (
	defaultSearchLimit = 10
	prefixMatchFactor  = 0.5 // "chick" against "chicken"
	substringBonus     = 1.0 // whole query appears in the food name
	categoryMatchBonus = 0.5 // query names the food's category
)

// stopWords are ignored when matching
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "with": true, "for": true, "in": true, "on": true,
	"some": true, "kids": true, "kid": true,
}

type searchHit struct {
	food  domain.FoodItem
	score float64
}

// Search ranks catalog foods by how many query tokens their names share.
// Exact token matches count fully and prefix matches count half.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]domain.FoodItem, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	normalizedQuery := normalize(query)
	var hits []searchHit
	for _, food := range c.foods {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score := matchScore(queryTokens, tokenize(food.Name))
		if score == 0 {
			continue
		}
		if strings.Contains(normalize(food.Name), normalizedQuery) {
			score += substringBonus
		}
		for _, token := range queryTokens {
			if strings.HasPrefix(string(food.Category), token) {
				score += categoryMatchBonus
				break
			}
		}
		hits = append(hits, searchHit{food: food.Clone(), score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].food.Name < hits[j].food.Name
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	result := make([]domain.FoodItem, len(hits))
	for i, hit := range hits {
		result[i] = hit.food
	}
	return result, nil
}

// matchScore sums, over query tokens, 1 for an exact name token match and
// prefixMatchFactor for a prefix match.
func matchScore(queryTokens, nameTokens []string) float64 {
	score := 0.0
	for _, q := range queryTokens {
		best := 0.0
		for _, n := range nameTokens {
			if n == q {
				best = 1
				break
			}
			if len(q) >= 3 && strings.HasPrefix(n, q) {
				best = prefixMatchFactor
			}
		}
		score += best
	}
	return score
}

// normalize lowercases s, strips punctuation and collapses whitespace
func normalize(s string) string {
	result := strings.ToLower(s)
	result = punctuationRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// tokenize splits s into normalized tokens without stop words
func tokenize(s string) []string {
	fields := strings.Fields(normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !stopWords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
