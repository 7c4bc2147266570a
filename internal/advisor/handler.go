package advisor

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
	protected.HandleFunc("/plan", h.GetPlan).Methods("GET")
}

func getStudentID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value("student_id").(int64)
	return id, ok
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getStudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	plan, err := h.service.Plan(r.Context(), studentID)
	if err != nil {
		log.Printf("[advisor] plan failed for student %d: %v", studentID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build study plan"})
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
