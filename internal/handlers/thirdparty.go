package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Saumajitt/grc-dashboard/internal/config"
	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/service"
)

// ThirdPartyHandler обрабатывает bulk-загрузку и CRUD контрагентов.
type ThirdPartyHandler struct {
	ThirdParties *service.ThirdPartyService
	Users        *service.UserService
	Logger       *zap.SugaredLogger
	Config       *config.Config
}

// NewThirdPartyHandler создаёт хендлер thirdparties
func NewThirdPartyHandler(thirdParties *service.ThirdPartyService, users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *ThirdPartyHandler {
	return &ThirdPartyHandler{ThirdParties: thirdParties, Users: users, Logger: logger, Config: cfg}
}

// BulkUpload принимает CSV-файл в multipart-поле file. Только для админа.
func (h *ThirdPartyHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "BulkUpload", err)
		return
	}
	if actor.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins only")
		return
	}

	maxBody := int64(h.Config.MaxUploadMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Logger.Warnw("BulkUpload: invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	res, err := h.ThirdParties.BulkIngest(r.Context(), actor, file)
	if err != nil {
		handleServiceError(w, h.Logger, "BulkUpload", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "CSV processed",
		"successCount": res.SuccessCount,
		"failureCount": res.FailureCount,
		"errors":       res.Errors,
	})
}

// List — постраничный список контрагентов. Клиентам эндпоинт закрыт.
func (h *ThirdPartyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "ListThirdParties", err)
		return
	}
	if actor.Role == model.RoleClient {
		writeError(w, http.StatusForbidden, "clients cannot view third-party entries")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.ThirdParties.List(r.Context(), page, limit,
		r.URL.Query().Get("industry"), r.URL.Query().Get("name"))
	if err != nil {
		handleServiceError(w, h.Logger, "ListThirdParties", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":         res.Page,
		"totalPages":   res.TotalPages,
		"total":        res.Total,
		"count":        len(res.Items),
		"thirdParties": res.Items,
	})
}

// GetByID возвращает одну запись.
func (h *ThirdPartyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "GetThirdParty", err)
		return
	}

	tp, err := h.ThirdParties.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.Logger, "GetThirdParty", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"thirdParty": tp})
}

type UpdateThirdPartyRequest struct {
	Name      *string  `json:"name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Company   *string  `json:"company,omitempty"`
	Role      *string  `json:"role,omitempty"`
	Industry  *string  `json:"industry,omitempty"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Update меняет переданные поля записи.
func (h *ThirdPartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateThirdParty", err)
		return
	}

	var req UpdateThirdPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateThirdParty: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	tp, err := h.ThirdParties.Update(r.Context(), actor, chi.URLParam(r, "id"), service.ThirdPartyUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Role:      req.Role,
		Industry:  req.Industry,
		RiskScore: req.RiskScore,
	})
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateThirdParty", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "third party updated",
		"thirdParty": tp,
	})
}

// Delete удаляет запись.
func (h *ThirdPartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteThirdParty", err)
		return
	}

	deletedID, err := h.ThirdParties.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteThirdParty", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "third party deleted",
		"deletedId": deletedID,
	})
}
