package risk

import (
	"encoding/json"
	"log"
	"net/http"

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
	protected.HandleFunc("/risk", h.GetAssessment).Methods("GET")
	protected.HandleFunc("/risk/alerts", h.GetAlerts).Methods("GET")
}

func getStudentID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value("student_id").(int64)
	return id, ok
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	assessment, err := h.service.Assess(r.Context(), studentID)
	if err != nil {
		log.Printf("[risk] assessment failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to assess risk"})
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	alerts, err := h.service.Alerts(r.Context(), studentID)
	if err != nil {
		log.Printf("[risk] alert listing failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list alerts"})
		return
	}

	writeJSON(w, http.StatusOK, models.AlertListResponse{Alerts: alerts})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
