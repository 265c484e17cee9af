package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
)

// AppraisalHistoryRepository stores audit entries for record transitions.
type AppraisalHistoryRepository interface {
	Create(ctx context.Context, history *domain.AppraisalHistory) error
	ListByAppraisal(ctx context.Context, appraisalID string) ([]domain.AppraisalHistory, error)
}

type appraisalHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAppraisalHistoryRepository builds repository.
func NewAppraisalHistoryRepository(pool *pgxpool.Pool) AppraisalHistoryRepository {
	return &appraisalHistoryRepository{pool: pool}
}

func (r *appraisalHistoryRepository) Create(ctx context.Context, history *domain.AppraisalHistory) error {
	const query = `
        INSERT INTO appraisal_history (appraisal_id, changed_by, actor_role, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		history.AppraisalID,
		history.ChangedBy,
		history.ActorRole,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *appraisalHistoryRepository) ListByAppraisal(ctx context.Context, appraisalID string) ([]domain.AppraisalHistory, error) {
	const query = `
        SELECT id, appraisal_id, changed_by, actor_role, change_type, old_value, new_value, created_at
        FROM appraisal_history WHERE appraisal_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, appraisalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AppraisalHistory
	for rows.Next() {
		var history domain.AppraisalHistory
		if err := rows.Scan(
			&history.ID,
			&history.AppraisalID,
			&history.ChangedBy,
			&history.ActorRole,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
