package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Saumajitt/grc-dashboard/internal/config"
	"github.com/Saumajitt/grc-dashboard/internal/middleware"
	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/service"
)

// UserHandler обрабатывает регистрацию, вход и админское управление клиентами.
type UserHandler struct {
	Users    *service.UserService
	Profiles *service.ProfileService
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

// NewUserHandler создаёт хендлер users
func NewUserHandler(users *service.UserService, profiles *service.ProfileService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Profiles: profiles, Logger: logger, Config: cfg}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует пользователя.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.Users.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		handleServiceError(w, h.Logger, "Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered",
		"id":      user.ID,
	})
}

// Login проверяет учётные данные и выдаёт bearer-токен на час.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.Logger, "Login", err)
		return
	}

	token, err := middleware.BuildJWTString(user.ID, user.Role, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("Login: failed to sign token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"role":  user.Role,
	})
}

// Logout — серверного состояния сессии нет, токен живёт до истечения срока.
// Клиент обязан удалить токен у себя.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveActor(r, h.Users); err != nil {
		handleServiceError(w, h.Logger, "Logout", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// ProfileEvidenceDTO — evidence из профиля с вычисленной ссылкой на файл.
type ProfileEvidenceDTO struct {
	service.ProfileEvidence
	FileURL string `json:"fileUrl"`
}

// Profile отдаёт сводку в зависимости от роли. Ссылки на файлы зависят от
// хоста запроса, поэтому достраиваются здесь, а не в сервисе.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "Profile", err)
		return
	}

	profile, err := h.Profiles.GetProfile(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.Logger, "Profile", err)
		return
	}

	base := requestBaseURL(r, h.Config.EnableHTTPS)
	evidence := make([]ProfileEvidenceDTO, 0, len(profile.Evidence))
	for _, pe := range profile.Evidence {
		evidence = append(evidence, ProfileEvidenceDTO{
			ProfileEvidence: pe,
			FileURL:         base + "/uploads/" + pe.Filename,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":         profile.User,
		"stats":        profile.Stats,
		"evidence":     evidence,
		"thirdParties": profile.ThirdParties,
		"users":        profile.Users,
	})
}

// ListClients — админский список всех клиентов.
func (h *UserHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "ListClients", err)
		return
	}
	if actor.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins only")
		return
	}

	clients, err := h.Users.ListClients(r.Context())
	if err != nil {
		handleServiceError(w, h.Logger, "ListClients", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

type UpdateClientRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// UpdateClient — админ меняет email и/или роль клиента.
func (h *UserHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateClient", err)
		return
	}
	if actor.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins only")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateClient: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	client, err := h.Users.UpdateClient(r.Context(), id, req.Email, req.Role)
	if err != nil {
		handleServiceError(w, h.Logger, "UpdateClient", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "client updated",
		"client":  client,
	})
}

// DeleteClient — админ удаляет клиента. Записи клиента остаются.
func (h *UserHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.Users)
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteClient", err)
		return
	}
	if actor.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "admins only")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	deletedID, err := h.Users.DeleteClient(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.Logger, "DeleteClient", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "client removed",
		"deletedId": deletedID,
	})
}
