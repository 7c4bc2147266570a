package attempts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/boardprep/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/progress/access", h.CheckAccess).Methods("GET")
	protected.HandleFunc("/progress/weeks", h.GetWeekProgress).Methods("GET")
	protected.HandleFunc("/attempts", h.SubmitAttempt).Methods("POST")
	protected.HandleFunc("/attempts", h.GetHistory).Methods("GET")
}

func getStudentID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value("student_id").(int64)
	return id, ok
}

func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	testType := models.TestType(r.URL.Query().Get("test_type"))
	if !models.ValidTestTypes[testType] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "test_type must be 'pre-test', 'post-test', or 'mock-exam'"})
		return
	}

	week, err := weekParam(r, testType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	decision := h.service.CheckAccess(r.Context(), studentID, week, testType)
	writeJSON(w, http.StatusOK, decision)
}

func (h *Handler) GetWeekProgress(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	currentWeek := h.service.gate.Calendar.CurrentWeek(time.Now())
	resp, err := h.service.WeekProgress(r.Context(), studentID, currentWeek)
	if err != nil {
		log.Printf("[attempts] week progress failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if msg := validateSubmission(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	resp, err := h.service.Submit(r.Context(), studentID, req)
	if err != nil {
		var denied *AccessDeniedError
		switch {
		case errors.As(err, &denied):
			writeJSON(w, http.StatusForbidden, denied.Decision)
		case errors.Is(err, ErrDuplicateAttempt):
			// A racing duplicate lost to the storage constraint; same outcome
			// as the gate's already_completed.
			writeJSON(w, http.StatusConflict, models.AccessDecision{
				CanTake:    false,
				ReasonCode: models.ReasonAlreadyCompleted,
				Message:    "This test has already been submitted",
			})
		default:
			log.Printf("[attempts] submit failed for student %d: %v", studentID, err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	history, err := h.service.History(r.Context(), studentID)
	if err != nil {
		log.Printf("[attempts] history failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load attempts"})
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// validateSubmission rejects malformed input before any mutation. Returns an
// empty string when the request is acceptable.
func validateSubmission(req *models.SubmitAttemptRequest) string {
	if !models.ValidTestTypes[req.TestType] {
		return "test_type must be 'pre-test', 'post-test', or 'mock-exam'"
	}
	if req.TestType == models.TestMock {
		// The mock exam is cumulative; it carries no curriculum week.
		req.Week = 0
	} else if req.Week < 1 {
		return "week must be at least 1"
	}
	if len(req.Questions) == 0 {
		return "questions are required"
	}
	if req.TimeSpentSeconds < 0 {
		return "time_spent_seconds must not be negative"
	}
	for _, s := range req.Subjects {
		if !models.ValidSubjects[s] {
			return "unknown subject: " + string(s)
		}
	}
	for _, q := range req.Questions {
		if q.QuestionID <= 0 {
			return "every question needs a question_id"
		}
		if q.CorrectOption == "" {
			return "every question needs a correct_option"
		}
	}
	return ""
}

func weekParam(r *http.Request, testType models.TestType) (int, error) {
	if testType == models.TestMock {
		return 0, nil
	}
	v := r.URL.Query().Get("week")
	week, err := strconv.Atoi(v)
	if err != nil || week < 1 {
		return 0, errors.New("week must be a positive integer")
	}
	return week, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
