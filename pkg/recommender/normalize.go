package recommender

import "strings"

// DefaultQuery replaces an empty user query.
const DefaultQuery = "I need a video to promote my business and get more customers."

// NormalizeQuery trims raw and substitutes DefaultQuery when nothing is left.
// The returned text is what the caller should reflect back to the user.
func NormalizeQuery(raw string) string {
	q := strings.TrimSpace(raw)
	if q == "" {
		return DefaultQuery
	}
	return q
}
