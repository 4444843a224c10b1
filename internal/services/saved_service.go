package services

import (
	"context"
	"fmt"
	"strings"

	"reelmatch/internal/catalog"
	"reelmatch/internal/models"
	"reelmatch/internal/store"
	"reelmatch/internal/viewstate"
)

// DefaultSavedReason is stored when a service is saved without a reason.
const DefaultSavedReason = "Selected from catalog"

// SavedService keeps bookmarked services under one namespace.
type SavedService struct {
	store     store.SavedStore
	namespace string
}

func NewSavedService(st store.SavedStore, namespace string) *SavedService {
	return &SavedService{store: st, namespace: namespace}
}

func (s *SavedService) Namespace() string { return s.namespace }

// Save bookmarks serviceID. Saving an already bookmarked service returns the
// existing entry with existed=true.
func (s *SavedService) Save(ctx context.Context, serviceID, reason string) (*models.SavedRecommendation, bool, error) {
	serviceID = strings.TrimSpace(serviceID)
	if serviceID == "" {
		return nil, false, fmt.Errorf("%w: serviceId is required", models.ErrValidation)
	}
	if !catalog.Exists(serviceID) {
		return nil, false, fmt.Errorf("%w: %w: %q", models.ErrValidation, models.ErrUnknownService, serviceID)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultSavedReason
	}

	rec := &models.SavedRecommendation{Namespace: s.namespace, ServiceID: serviceID, Reason: reason}
	existed, err := s.store.SaveRecommendation(ctx, rec)
	if err != nil {
		return nil, false, fmt.Errorf("save recommendation: %w", err)
	}
	return rec, existed, nil
}

func (s *SavedService) List(ctx context.Context) ([]*models.SavedRecommendation, error) {
	saved, err := s.store.ListSaved(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("list saved recommendations: %w", err)
	}
	return saved, nil
}

// Cards renders saved entries; entries for services no longer in the
// catalog are skipped.
func (s *SavedService) Cards(ctx context.Context) ([]viewstate.Card, error) {
	saved, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.RecommendationItem, 0, len(saved))
	for _, rec := range saved {
		items = append(items, models.RecommendationItem{ServiceID: rec.ServiceID, Reason: rec.Reason, MatchedKeywords: []string{}})
	}
	return viewstate.RecommendationCards(models.RecommendationResult{Recommendations: items}), nil
}

// Delete removes a bookmark; store.ErrNotFound if it was not saved.
func (s *SavedService) Delete(ctx context.Context, serviceID string) error {
	if err := s.store.DeleteSaved(ctx, s.namespace, serviceID); err != nil {
		return fmt.Errorf("delete saved recommendation: %w", err)
	}
	return nil
}
