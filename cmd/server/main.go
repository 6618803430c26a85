package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Saumajitt/grc-dashboard/internal/config"
	"github.com/Saumajitt/grc-dashboard/internal/handlers"
	"github.com/Saumajitt/grc-dashboard/internal/middleware"
	"github.com/Saumajitt/grc-dashboard/internal/repo"
	"github.com/Saumajitt/grc-dashboard/internal/service"
	"github.com/Saumajitt/grc-dashboard/internal/storage"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		sugar.Fatalw("failed to initialize file store", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	evidenceRepo := repo.NewEvidenceRepository(gormDB)
	thirdPartyRepo := repo.NewThirdPartyRepository(gormDB)

	userService := service.NewUserService(userRepo)
	evidenceService := service.NewEvidenceService(evidenceRepo, fileStore, sugar)
	thirdPartyService := service.NewThirdPartyService(thirdPartyRepo, sugar)
	profileService := service.NewProfileService(userRepo, evidenceRepo, thirdPartyRepo)

	h := handlers.NewHandler(userService, evidenceService, thirdPartyService, profileService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"UploadDir", cfg.UploadDir,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
