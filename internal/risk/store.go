package risk

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/boardprep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateAlert appends one alert row. Reasons and recommendations are stored
// as JSONB documents.
func (s *Store) CreateAlert(ctx context.Context, alert *models.AtRiskAlert) error {
	reasons, err := json.Marshal(alert.Reasons)
	if err != nil {
		return fmt.Errorf("failed to marshal reasons: %w", err)
	}
	recs, err := json.Marshal(alert.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO at_risk_alerts (student_id, risk_level, risk_score, predicted_score,
		                            weeks_until_exam, reasons, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_resolved, created_at`

	err = s.db.QueryRowContext(ctx, query,
		alert.StudentID, alert.RiskLevel, alert.RiskScore, alert.PredictedScore,
		alert.WeeksUntilExam, reasons, recs,
	).Scan(&alert.ID, &alert.IsResolved, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListAlerts returns a student's alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, studentID int64) ([]models.AtRiskAlert, error) {
	query := `
		SELECT id, student_id, risk_level, risk_score, predicted_score,
		       weeks_until_exam, reasons, recommendations, is_resolved, created_at
		FROM at_risk_alerts
		WHERE student_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.AtRiskAlert{}
	for rows.Next() {
		var a models.AtRiskAlert
		var reasons, recs []byte
		err := rows.Scan(&a.ID, &a.StudentID, &a.RiskLevel, &a.RiskScore, &a.PredictedScore,
			&a.WeeksUntilExam, &reasons, &recs, &a.IsResolved, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if err := json.Unmarshal(reasons, &a.Reasons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reasons: %w", err)
		}
		if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
