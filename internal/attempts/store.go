package attempts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/boardprep/backend/internal/models"
)

// ErrDuplicateAttempt surfaces the storage-layer uniqueness constraint: a
// second writer racing on the same (student, week, testType) loses here, not
// in an application-level check.
var ErrDuplicateAttempt = errors.New("attempt already recorded for this week and test type")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create persists a TestAttempt and its QuestionAttempts as one atomic unit.
// The attempt's ID and CompletedAt are filled in on success.
func (s *Store) Create(ctx context.Context, attempt *models.TestAttempt, questions []models.QuestionAttempt) error {
	subjects, err := json.Marshal(attempt.Subjects)
	if err != nil {
		return fmt.Errorf("encode subjects: %w", err)
	}
	subjectScores, err := json.Marshal(attempt.SubjectScores)
	if err != nil {
		return fmt.Errorf("encode subject scores: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO test_attempts
		     (student_id, test_type, week, subjects, score, total_questions, time_spent_seconds, subject_scores)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, completed_at`,
		attempt.StudentID, attempt.TestType, attempt.Week, subjects,
		attempt.Score, attempt.TotalQuestions, attempt.TimeSpentSeconds, subjectScores,
	).Scan(&attempt.ID, &attempt.CompletedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateAttempt
		}
		return fmt.Errorf("insert attempt: %w", err)
	}

	for i := range questions {
		questions[i].TestAttemptID = attempt.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO question_attempts (test_attempt_id, question_id, selected_option, is_correct)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			attempt.ID, questions[i].QuestionID, questions[i].SelectedOption, questions[i].IsCorrect,
		).Scan(&questions[i].ID)
		if err != nil {
			return fmt.Errorf("insert question attempt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attempt: %w", err)
	}
	return nil
}

const attemptColumns = `id, student_id, test_type, week, subjects, score,
	        total_questions, time_spent_seconds, subject_scores, completed_at`

// ListByStudent returns the student's full attempt history, oldest first.
// History is bounded by the curriculum, so no pagination is needed here.
func (s *Store) ListByStudent(ctx context.Context, studentID int64) ([]models.TestAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM test_attempts
		 WHERE student_id = $1 ORDER BY completed_at ASC`, attemptColumns),
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.TestAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func scanAttempt(rows *sql.Rows) (*models.TestAttempt, error) {
	var a models.TestAttempt
	var subjects, subjectScores []byte

	if err := rows.Scan(&a.ID, &a.StudentID, &a.TestType, &a.Week, &subjects, &a.Score,
		&a.TotalQuestions, &a.TimeSpentSeconds, &subjectScores, &a.CompletedAt); err != nil {
		return nil, fmt.Errorf("scan attempt: %w", err)
	}
	if err := json.Unmarshal(subjects, &a.Subjects); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}
	if err := json.Unmarshal(subjectScores, &a.SubjectScores); err != nil {
		return nil, fmt.Errorf("decode subject scores: %w", err)
	}
	return &a, nil
}
