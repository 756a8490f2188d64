package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/service"
)

// EvaluationHandler handles submission and reporting endpoints.
type EvaluationHandler struct {
	responseSvc *service.ResponseService
	statsSvc    *service.StatsService
	exportSvc   *service.ExportService
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(responseSvc *service.ResponseService, statsSvc *service.StatsService, exportSvc *service.ExportService) *EvaluationHandler {
	return &EvaluationHandler{
		responseSvc: responseSvc,
		statsSvc:    statsSvc,
		exportSvc:   exportSvc,
	}
}

// Submit handles POST /v1/public/evaluations
func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.responseSvc.Submit(r.Context(), &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /v1/evaluations
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"evaluations": responses})
}

// ListByTemplate handles GET /v1/templates/{templateId}/evaluations
func (h *EvaluationHandler) ListByTemplate(w http.ResponseWriter, r *http.Request) {
	responses, err := h.responseSvc.ListByTemplate(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"evaluations": responses})
}

// Delete handles DELETE /v1/evaluations/{id}
func (h *EvaluationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.responseSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "evaluation deleted"})
}

// DeleteByTemplate handles DELETE /v1/templates/{templateId}/evaluations
func (h *EvaluationHandler) DeleteByTemplate(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.responseSvc.DeleteByTemplate(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "evaluations deleted",
		"deleted": deleted,
	})
}

// Statistics handles GET /v1/templates/{templateId}/statistics
func (h *EvaluationHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.TemplateStatistics(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /v1/templates/{templateId}/export
func (h *EvaluationHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.exportSvc.ExportTemplate(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
