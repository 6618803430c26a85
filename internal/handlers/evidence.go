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

// EvidenceHandler обрабатывает загрузку и CRUD evidence.
type EvidenceHandler struct {
	Evidence *service.EvidenceService
	Users    *service.UserService
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

// NewEvidenceHandler создаёт хендлер evidence
func NewEvidenceHandler(evidence *service.EvidenceService, users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *EvidenceHandler {
	return &EvidenceHandler{Evidence: evidence, Users: users, Logger: logger, Config: cfg}
}

// EvidenceDTO — evidence c вычисленной ссылкой на файл.
type EvidenceDTO struct {
	model.Evidence
	FileURL string `json:"fileUrl"`
}

func (h *EvidenceHandler) toDTO(r *http.Request, items []model.Evidence) []EvidenceDTO {
	base := requestBaseURL(r, h.Config.EnableHTTPS)
	out := make([]EvidenceDTO, 0, len(items))
	for _, ev := range items {
		out = append(out, EvidenceDTO{Evidence: ev, FileURL: base + "/uploads/" + ev.Filename})
	}
	return out
}

// Upload принимает multipart с полями files (до 10 штук), title, category.
func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "Upload", err)
		return
	}

	// Лимит общего тела запроса
	maxBody := int64(h.Config.MaxUploadMB)*1024*1024 + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Logger.Warnw("Upload: invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var files []service.UploadFile
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				h.Logger.Warnw("Upload: failed to open part", "filename", fh.Filename, "error", err)
				writeError(w, http.StatusBadRequest, "failed to read file")
				return
			}
			defer f.Close()
			files = append(files, service.UploadFile{Name: fh.Filename, Data: f})
		}
	}

	created, err := h.Evidence.Upload(r.Context(), actor, r.FormValue("title"), r.FormValue("category"), files)
	if err != nil {
		handleServiceError(w, h.Logger, "Upload", err)
		return
	}

	dto := h.toDTO(r, created)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "evidence uploaded",
		"count":   len(dto),
		"files":   dto,
	})
}

// List — постраничный список своих evidence. Админу эндпоинт закрыт:
// агрегированное представление у него в профиле.
func (h *EvidenceHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "ListEvidence", err)
		return
	}
	if actor.Role == model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins should use the profile view")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res, err := h.Evidence.List(r.Context(), actor.ID, page, limit, r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, h.Logger, "ListEvidence", err)
		return
	}

	dto := h.toDTO(r, res.Items)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":       res.Page,
		"totalPages": res.TotalPages,
		"total":      res.Total,
		"count":      len(dto),
		"evidences":  dto,
	})
}

type UpdateEvidenceRequest struct {
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Update меняет title и/или category записи.
func (h *EvidenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateEvidence", err)
		return
	}

	var req UpdateEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateEvidence: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ev, err := h.Evidence.Update(r.Context(), actor, chi.URLParam(r, "id"), req.Title, req.Category)
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateEvidence", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "evidence updated",
		"evidence": ev,
	})
}

// Delete удаляет файл и запись метаданных.
func (h *EvidenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteEvidence", err)
		return
	}

	deletedID, err := h.Evidence.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteEvidence", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "evidence deleted",
		"deletedId": deletedID,
	})
}
