package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Saumajitt/grc-dashboard/internal/config"
	"github.com/Saumajitt/grc-dashboard/internal/middleware"
	"github.com/Saumajitt/grc-dashboard/internal/model"
	"github.com/Saumajitt/grc-dashboard/internal/service"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	evidenceService *service.EvidenceService,
	thirdPartyService *service.ThirdPartyService,
	profileService *service.ProfileService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, profileService, logger, config)
	evidenceHandler := NewEvidenceHandler(evidenceService, userService, logger, config)
	thirdPartyHandler := NewThirdPartyHandler(thirdPartyService, userService, logger, config)

	// User routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/logout", userHandler.Logout)
		r.Get("/profile", userHandler.Profile)
		r.Get("/", userHandler.ListClients)
		r.Put("/{id}", userHandler.UpdateClient)
		r.Delete("/{id}", userHandler.DeleteClient)
	})

	// Evidence routes
	r.Route("/evidence", func(r chi.Router) {
		r.Post("/upload", evidenceHandler.Upload)
		r.Get("/", evidenceHandler.List)
		r.Put("/{id}", evidenceHandler.Update)
		r.Delete("/{id}", evidenceHandler.Delete)
	})

	// Third-party routes
	r.Route("/thirdparties", func(r chi.Router) {
		r.Post("/upload", thirdPartyHandler.BulkUpload)
		r.Get("/", thirdPartyHandler.List)
		r.Get("/{id}", thirdPartyHandler.GetByID)
		r.Put("/{id}", thirdPartyHandler.Update)
		r.Delete("/{id}", thirdPartyHandler.Delete)
	})

	// Раздача загруженных файлов по статическому пути
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return &Handler{Router: r}
}

// writeJSON сериализует ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError — все ошибки наружу уходят как {"message": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// resolveActor достаёт id из контекста запроса и перечитывает пользователя
// из БД, чтобы смена роли или удаление учётки действовали сразу.
func resolveActor(r *http.Request, users *service.UserService) (*model.User, error) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return users.Resolve(r.Context(), uid)
}

// handleServiceError переводит сентинельные ошибки сервисов в HTTP-статусы.
// Всё неожиданное логируется и наружу уходит как 500 без деталей.
func handleServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, service.ErrNoFiles):
		writeError(w, http.StatusBadRequest, "no files uploaded")
	case errors.Is(err, service.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Errorw(op+": unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requestBaseURL восстанавливает базовый URL запроса для ссылок на файлы.
func requestBaseURL(r *http.Request, enableHTTPS bool) string {
	scheme := "http"
	if r.TLS != nil || enableHTTPS {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
