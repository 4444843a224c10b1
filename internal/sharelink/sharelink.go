// Package sharelink encodes a single recommendation into URL query
// parameters and decodes it back.
package sharelink

import (
	"fmt"
	"net/url"
	"strings"

	"reelmatch/internal/catalog"
	"reelmatch/internal/models"
)

const (
	ParamServiceID = "serviceId"
	ParamReason    = "reason"

	// SharedKeyword replaces the matched keywords of a decoded link.
	SharedKeyword = "Shared Link"
)

// Encode sets the share parameters on baseURL, replacing existing ones.
// The reason parameter is omitted when reason is empty.
func Encode(baseURL, serviceID, reason string) (string, error) {
	if serviceID == "" {
		return "", fmt.Errorf("%w: service id is required", models.ErrValidation)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base url: %v", models.ErrValidation, err)
	}
	q := u.Query()
	q.Set(ParamServiceID, serviceID)
	if reason != "" {
		q.Set(ParamReason, reason)
	} else {
		q.Del(ParamReason)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode accepts a full URL or a bare query string. Both parameters must be
// present and the service must exist in the catalog.
func Decode(raw string) (models.RecommendationResult, error) {
	query := raw
	if i := strings.Index(raw, "?"); i >= 0 {
		query = raw[i+1:]
	}
	if i := strings.Index(query, "#"); i >= 0 {
		query = query[:i]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("%w: invalid share query: %v", models.ErrValidation, err)
	}
	return FromValues(values.Get(ParamServiceID), values.Get(ParamReason))
}

// FromValues builds the one-item result for an already-parsed share link.
func FromValues(serviceID, reason string) (models.RecommendationResult, error) {
	if serviceID == "" || reason == "" {
		return models.RecommendationResult{}, fmt.Errorf("%w: share link needs %s and %s", models.ErrValidation, ParamServiceID, ParamReason)
	}
	if !catalog.Exists(serviceID) {
		return models.RecommendationResult{}, fmt.Errorf("%w: %q", models.ErrUnknownService, serviceID)
	}
	return models.RecommendationResult{Recommendations: []models.RecommendationItem{{
		ServiceID:       serviceID,
		Reason:          reason,
		MatchedKeywords: []string{SharedKeyword},
	}}}, nil
}
