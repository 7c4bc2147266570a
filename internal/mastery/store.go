package mastery

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardprep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const masteryColumns = `id, student_id, concept_id, mastery_level, attempts, correct_attempts,
	        interval_days, ease_factor, last_reviewed, next_review_date`

// ApplyOutcome runs a read-modify-write for one (student, concept) row inside
// a transaction holding the row lock, so concurrent updates for the same pair
// serialize instead of overwriting each other. The row is created with the
// given prior on first contact; merge must be a pure function of the row.
func (s *Store) ApplyOutcome(ctx context.Context, studentID, conceptID int64, prior float64, merge func(models.ConceptMastery) models.ConceptMastery) (*models.ConceptMastery, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO concept_mastery (student_id, concept_id, mastery_level)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (student_id, concept_id) DO NOTHING`,
		studentID, conceptID, prior,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure mastery row: %w", err)
	}

	var m models.ConceptMastery
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM concept_mastery
		 WHERE student_id = $1 AND concept_id = $2 FOR UPDATE`, masteryColumns),
		studentID, conceptID,
	).Scan(&m.ID, &m.StudentID, &m.ConceptID, &m.MasteryLevel, &m.Attempts, &m.CorrectAttempts,
		&m.IntervalDays, &m.EaseFactor, &m.LastReviewed, &m.NextReviewDate)
	if err != nil {
		return nil, fmt.Errorf("lock mastery row: %w", err)
	}

	updated := merge(m)

	_, err = tx.ExecContext(ctx,
		`UPDATE concept_mastery
		 SET mastery_level = $1, attempts = $2, correct_attempts = $3,
		     interval_days = $4, ease_factor = $5, last_reviewed = $6, next_review_date = $7
		 WHERE id = $8`,
		updated.MasteryLevel, updated.Attempts, updated.CorrectAttempts,
		updated.IntervalDays, updated.EaseFactor, updated.LastReviewed, updated.NextReviewDate,
		m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update mastery row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mastery update: %w", err)
	}

	updated.ID = m.ID
	updated.StudentID = m.StudentID
	updated.ConceptID = m.ConceptID
	return &updated, nil
}

func (s *Store) ListByStudent(ctx context.Context, studentID int64) ([]models.ConceptMastery, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM concept_mastery
		 WHERE student_id = $1 ORDER BY mastery_level ASC`, masteryColumns),
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list mastery: %w", err)
	}
	defer rows.Close()

	var records []models.ConceptMastery
	for rows.Next() {
		var m models.ConceptMastery
		if err := rows.Scan(&m.ID, &m.StudentID, &m.ConceptID, &m.MasteryLevel, &m.Attempts,
			&m.CorrectAttempts, &m.IntervalDays, &m.EaseFactor, &m.LastReviewed, &m.NextReviewDate); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}
