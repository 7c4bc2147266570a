package attempts

import (
	"math"
	"testing"

	"github.com/boardprep/backend/internal/models"
)

func TestGrade_ScoreAndSubjectBreakdown(t *testing.T) {
	req := models.SubmitAttemptRequest{
		TestType: models.TestPre,
		Week:     1,
		Subjects: []models.Subject{models.SubjectAbnormal, models.SubjectDevelopmental},
		Questions: []models.SubmittedQuestion{
			{QuestionID: 1, Subject: models.SubjectAbnormal, CorrectOption: "a"},
			{QuestionID: 2, Subject: models.SubjectAbnormal, CorrectOption: "b"},
			{QuestionID: 3, Subject: models.SubjectDevelopmental, CorrectOption: "c"},
			{QuestionID: 4, Subject: models.SubjectDevelopmental, CorrectOption: "d"},
		},
		Answers: map[int64]string{
			1: "a", // correct
			2: "c", // wrong
			3: "c", // correct
			// 4 unanswered: counts as incorrect
		},
		TimeSpentSeconds: 600,
	}

	attempt, graded := grade(7, req)

	if attempt.Score != 2 || attempt.TotalQuestions != 4 {
		t.Errorf("score = %d/%d, want 2/4", attempt.Score, attempt.TotalQuestions)
	}
	if got := attempt.Percentage(); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("percentage = %f, want 50", got)
	}
	if attempt.StudentID != 7 {
		t.Errorf("studentID = %d, want 7", attempt.StudentID)
	}

	ab := attempt.SubjectScores[models.SubjectAbnormal]
	if ab.Score != 1 || ab.Total != 2 || math.Abs(ab.Percentage-50) > 1e-9 {
		t.Errorf("abnormal = %+v, want 1/2 (50%%)", ab)
	}
	dev := attempt.SubjectScores[models.SubjectDevelopmental]
	if dev.Score != 1 || dev.Total != 2 {
		t.Errorf("developmental = %+v, want 1/2", dev)
	}

	if len(graded) != 4 {
		t.Fatalf("len(graded) = %d, want 4", len(graded))
	}
	wantCorrect := []bool{true, false, true, false}
	for i, want := range wantCorrect {
		if graded[i].IsCorrect != want {
			t.Errorf("graded[%d].IsCorrect = %v, want %v", i, graded[i].IsCorrect, want)
		}
	}
	if graded[3].SelectedOption != "" {
		t.Errorf("unanswered question has selected option %q", graded[3].SelectedOption)
	}
}

func TestGrade_PreservesQuestionOrder(t *testing.T) {
	req := models.SubmitAttemptRequest{
		TestType: models.TestPost,
		Week:     2,
		Questions: []models.SubmittedQuestion{
			{QuestionID: 30, Subject: models.SubjectIndustrial, CorrectOption: "a"},
			{QuestionID: 10, Subject: models.SubjectIndustrial, CorrectOption: "a"},
			{QuestionID: 20, Subject: models.SubjectIndustrial, CorrectOption: "a"},
		},
		Answers: map[int64]string{30: "a", 10: "b", 20: "a"},
	}

	_, graded := grade(1, req)

	// Mastery updates follow this slice, so order must match the submission.
	wantIDs := []int64{30, 10, 20}
	for i, id := range wantIDs {
		if graded[i].QuestionID != id {
			t.Errorf("graded[%d].QuestionID = %d, want %d", i, graded[i].QuestionID, id)
		}
	}
}

func TestValidateSubmission(t *testing.T) {
	valid := models.SubmitAttemptRequest{
		TestType:  models.TestPre,
		Week:      1,
		Questions: []models.SubmittedQuestion{{QuestionID: 1, CorrectOption: "a"}},
	}

	tests := []struct {
		name   string
		mutate func(*models.SubmitAttemptRequest)
		wantOK bool
	}{
		{"valid", func(r *models.SubmitAttemptRequest) {}, true},
		{"bad test type", func(r *models.SubmitAttemptRequest) { r.TestType = "midterm" }, false},
		{"week zero", func(r *models.SubmitAttemptRequest) { r.Week = 0 }, false},
		{"mock ignores week", func(r *models.SubmitAttemptRequest) { r.TestType = models.TestMock; r.Week = 0 }, true},
		{"no questions", func(r *models.SubmitAttemptRequest) { r.Questions = nil }, false},
		{"negative time", func(r *models.SubmitAttemptRequest) { r.TimeSpentSeconds = -1 }, false},
		{"unknown subject", func(r *models.SubmitAttemptRequest) { r.Subjects = []models.Subject{"alchemy"} }, false},
		{"missing correct option", func(r *models.SubmitAttemptRequest) {
			r.Questions = []models.SubmittedQuestion{{QuestionID: 1}}
		}, false},
	}

	for _, tt := range tests {
		req := valid
		tt.mutate(&req)
		msg := validateSubmission(&req)
		if ok := msg == ""; ok != tt.wantOK {
			t.Errorf("%s: validateSubmission = %q, want ok=%v", tt.name, msg, tt.wantOK)
		}
	}
}
