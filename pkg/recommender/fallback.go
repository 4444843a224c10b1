package recommender

import (
	"strings"

	"reelmatch/internal/models"
)

type fallbackRule struct {
	triggers []string
	item     models.RecommendationItem
}

// Rules are evaluated in this order; each adds at most one item.
var fallbackRules = []fallbackRule{
	{
		triggers: []string{"product", "demo", "explain"},
		item: models.RecommendationItem{
			ServiceID:       "product-demo",
			Reason:          "You mentioned explaining a product, which is ideal for a demo.",
			MatchedKeywords: []string{"product", "explain"},
		},
	},
	{
		triggers: []string{"brand", "story", "mission"},
		item: models.RecommendationItem{
			ServiceID:       "brand-film",
			Reason:          "Storytelling is key for brand identity.",
			MatchedKeywords: []string{"story", "brand"},
		},
	},
	{
		triggers: []string{"event", "conference"},
		item: models.RecommendationItem{
			ServiceID:       "event-coverage",
			Reason:          "Perfect for capturing your live event.",
			MatchedKeywords: []string{"event"},
		},
	},
	{
		triggers: []string{"ad", "commercial", "promo"},
		item: models.RecommendationItem{
			ServiceID:       "ad-film",
			Reason:          "Best choice for advertising and commercial campaigns.",
			MatchedKeywords: []string{"ad", "commercial"},
		},
	},
}

// Used only when no rule fires.
var fallbackDefaults = []models.RecommendationItem{
	{
		ServiceID:       "social-promo",
		Reason:          "A great starting point for general visibility.",
		MatchedKeywords: []string{},
	},
	{
		ServiceID:       "brand-film",
		Reason:          "Establish your identity with a high-quality film.",
		MatchedKeywords: []string{},
	},
}

// Fallback maps query to a deterministic shortlist using case-insensitive
// substring rules. It never fails and performs no I/O. A single matching rule
// is not padded with the defaults.
func Fallback(query string) models.RecommendationResult {
	lower := strings.ToLower(query)

	var items []models.RecommendationItem
	for _, rule := range fallbackRules {
		if containsAny(lower, rule.triggers) {
			items = append(items, cloneItem(rule.item))
		}
	}
	if len(items) == 0 {
		for _, def := range fallbackDefaults {
			items = append(items, cloneItem(def))
		}
	}

	return models.RecommendationResult{Recommendations: dedupeAndTruncate(items, MaxRecommendations)}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// dedupeAndTruncate keeps the first item per service id, then at most max items.
func dedupeAndTruncate(items []models.RecommendationItem, max int) []models.RecommendationItem {
	seen := make(map[string]bool, len(items))
	out := make([]models.RecommendationItem, 0, len(items))
	for _, it := range items {
		if seen[it.ServiceID] {
			continue
		}
		seen[it.ServiceID] = true
		out = append(out, it)
		if len(out) == max {
			break
		}
	}
	return out
}

// cloneItem keeps callers from mutating the rule tables through keyword slices.
func cloneItem(it models.RecommendationItem) models.RecommendationItem {
	kw := make([]string, len(it.MatchedKeywords))
	copy(kw, it.MatchedKeywords)
	it.MatchedKeywords = kw
	return it
}
