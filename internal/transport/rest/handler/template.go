package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/service"
)

// TemplateHandler handles question template endpoints.
type TemplateHandler struct {
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// TemplateRequest is the request body for creating or updating a template.
type TemplateRequest struct {
	Name              string                      `json:"name"`
	Description       string                      `json:"description"`
	IsActive          bool                        `json:"isActive"`
	Questions         []model.Question            `json:"questions"`
	Subjects          []model.Subject             `json:"subjects"`
	SubjectQuestions  map[string][]model.Question `json:"subjectQuestions"`
	TemplateQuestions []model.Question            `json:"templateQuestions"`
}

func (req *TemplateRequest) toModel() *model.QuestionTemplate {
	return &model.QuestionTemplate{
		Name:              req.Name,
		Description:       req.Description,
		IsActive:          req.IsActive,
		CommonQuestions:   req.Questions,
		Subjects:          req.Subjects,
		SubjectQuestions:  req.SubjectQuestions,
		TemplateQuestions: req.TemplateQuestions,
	}
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl, err := h.templateSvc.Create(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

// Update handles PUT /v1/templates/{templateId}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tpl := req.toModel()
	tpl.ID = mux.Vars(r)["templateId"]

	updated, err := h.templateSvc.Update(r.Context(), tpl)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Get handles GET /v1/templates/{templateId}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templateSvc.GetByID(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// Delete handles DELETE /v1/templates/{templateId}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.templateSvc.Delete(r.Context(), mux.Vars(r)["templateId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}

// GetBySlug handles GET /v1/public/templates/{slug}. Only active templates are
// visible through the public link.
func (h *TemplateHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.templateSvc.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tpl == nil || !tpl.IsActive {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}
