package mastery

import (
	"encoding/json"
	"log"
	"net/http"
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
	protected.HandleFunc("/mastery/update", h.UpdateMastery).Methods("POST")
	protected.HandleFunc("/mastery/summary", h.GetSummary).Methods("GET")
	protected.HandleFunc("/mastery/due", h.GetDueConcepts).Methods("GET")
}

// getStudentID extracts the authenticated student ID from the request context.
func getStudentID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value("student_id").(int64)
	return id, ok
}

func (h *Handler) UpdateMastery(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.UpdateMasteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ConceptID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "concept_id is required"})
		return
	}
	if req.IsCorrect == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "is_correct is required"})
		return
	}

	resp, err := h.service.UpdateMastery(r.Context(), studentID, req.ConceptID, *req.IsCorrect)
	if err != nil {
		log.Printf("[mastery] update failed for student %d concept %d: %v", studentID, req.ConceptID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update mastery"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.service.Summary(r.Context(), studentID)
	if err != nil {
		log.Printf("[mastery] summary failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load mastery summary"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetDueConcepts(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	now := time.Now()
	if v := r.URL.Query().Get("now"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "now must be RFC3339"})
			return
		}
		now = parsed
	}

	due, err := h.service.Due(r.Context(), studentID, now)
	if err != nil {
		log.Printf("[mastery] due concepts failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load due concepts"})
		return
	}

	writeJSON(w, http.StatusOK, models.DueConceptsResponse{Due: due})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
