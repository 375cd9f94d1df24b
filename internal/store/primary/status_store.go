package primary

import (
	"context"
	"fmt"
	"time"

	"scribe/internal/models"
)

func (s *StoreImpl) CreateStatusCheck(ctx context.Context, check *models.StatusCheck) error {
	check.Timestamp = time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO status_checks (id, client_name, timestamp)
		VALUES ($1, $2, $3)`,
		check.ID, check.ClientName, check.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert status check: %w", err)
	}
	return nil
}

func (s *StoreImpl) ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, client_name, timestamp
		FROM status_checks
		ORDER BY timestamp DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query status checks: %w", err)
	}
	defer rows.Close()

	checks := []*models.StatusCheck{}
	for rows.Next() {
		check := &models.StatusCheck{}
		if err := rows.Scan(&check.ID, &check.ClientName, &check.Timestamp); err != nil {
			return nil, fmt.Errorf("failed scanning status check row: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status check rows: %w", err)
	}
	return checks, nil
}
