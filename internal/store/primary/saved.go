package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"

	"github.com/jackc/pgx/v5"
)

// SaveRecommendation inserts rec, or loads the existing row for the same
// namespace and service id.
func (s *StoreImpl) SaveRecommendation(ctx context.Context, rec *models.SavedRecommendation) (bool, error) {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	insert := `
		INSERT INTO saved_recommendations (namespace, service_id, reason, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, service_id) DO NOTHING
		RETURNING id`
	err := s.db.QueryRow(ctx, insert, rec.Namespace, rec.ServiceID, rec.Reason, rec.SavedAt).Scan(&rec.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("failed to save recommendation %s: %w", rec.ServiceID, err)
	}

	// Conflict: report the row that is already there.
	existing := `
		SELECT id, reason, saved_at FROM saved_recommendations
		WHERE namespace = $1 AND service_id = $2`
	if err := s.db.QueryRow(ctx, existing, rec.Namespace, rec.ServiceID).Scan(&rec.ID, &rec.Reason, &rec.SavedAt); err != nil {
		return true, fmt.Errorf("failed to load saved recommendation %s: %w", rec.ServiceID, err)
	}
	return true, nil
}

// ListSaved returns saved recommendations in the order they were saved.
func (s *StoreImpl) ListSaved(ctx context.Context, namespace string) ([]*models.SavedRecommendation, error) {
	query := `
		SELECT id, namespace, service_id, reason, saved_at
		FROM saved_recommendations
		WHERE namespace = $1
		ORDER BY saved_at ASC, id ASC`
	rows, err := s.db.Query(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved recommendations: %w", err)
	}
	defer rows.Close()

	saved, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.SavedRecommendation, error) {
		var r models.SavedRecommendation
		if err := row.Scan(&r.ID, &r.Namespace, &r.ServiceID, &r.Reason, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved recommendation: %w", err)
		}
		return &r, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *StoreImpl) DeleteSaved(ctx context.Context, namespace, serviceID string) error {
	cmdTag, err := s.db.Exec(ctx, `DELETE FROM saved_recommendations WHERE namespace = $1 AND service_id = $2`, namespace, serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete saved recommendation %s: %w", serviceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("saved recommendation %s: %w", serviceID, store.ErrNotFound)
	}
	return nil
}
