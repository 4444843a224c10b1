package local

import (
	"context"
	"fmt"
	"time"

	"reelmatch/internal/models"
	"reelmatch/internal/store"
)

func (s *StoreImpl) SaveRecommendation(ctx context.Context, rec *models.SavedRecommendation) (bool, error) {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_recommendations (namespace, service_id, reason, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, service_id) DO NOTHING`,
		rec.Namespace, rec.ServiceID, rec.Reason, rec.SavedAt)
	if err != nil {
		return false, fmt.Errorf("failed to save recommendation %s: %w", rec.ServiceID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to save recommendation %s: %w", rec.ServiceID, err)
	}
	if n == 1 {
		id, err := res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("failed to read saved recommendation id: %w", err)
		}
		rec.ID = id
		return false, nil
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT id, reason, saved_at FROM saved_recommendations
		WHERE namespace = ? AND service_id = ?`,
		rec.Namespace, rec.ServiceID).Scan(&rec.ID, &rec.Reason, &rec.SavedAt)
	if err != nil {
		return true, fmt.Errorf("failed to load saved recommendation %s: %w", rec.ServiceID, err)
	}
	return true, nil
}

func (s *StoreImpl) ListSaved(ctx context.Context, namespace string) ([]*models.SavedRecommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, namespace, service_id, reason, saved_at
		FROM saved_recommendations
		WHERE namespace = ?
		ORDER BY saved_at ASC, id ASC`, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved recommendations: %w", err)
	}
	defer rows.Close()

	var saved []*models.SavedRecommendation
	for rows.Next() {
		r := &models.SavedRecommendation{}
		if err := rows.Scan(&r.ID, &r.Namespace, &r.ServiceID, &r.Reason, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved recommendation: %w", err)
		}
		saved = append(saved, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved recommendations: %w", err)
	}
	return saved, nil
}

func (s *StoreImpl) DeleteSaved(ctx context.Context, namespace, serviceID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_recommendations WHERE namespace = ? AND service_id = ?`, namespace, serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete saved recommendation %s: %w", serviceID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("saved recommendation %s: %w", serviceID, store.ErrNotFound)
	}
	return nil
}
