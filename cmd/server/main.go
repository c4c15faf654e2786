package main

import (
	"GlucoTrack/internal/config"
	"GlucoTrack/internal/handlers"
	"GlucoTrack/internal/middleware"
	"GlucoTrack/internal/repo"
	"GlucoTrack/internal/service"
	"net/http"

	"go.uber.org/zap"
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

	userRepo := repo.NewUserRepository(gormDB)
	glucoseRepo := repo.NewGlucoseRepository(gormDB)
	insulinRepo := repo.NewInsulinRepository(gormDB)
	alertRepo := repo.NewAlertRepository(gormDB)
	settingsRepo := repo.NewSettingsRepository(gormDB)
	backupRepo := repo.NewBackupRepository(gormDB)
	restoreRepo := repo.NewRestoreRepository(gormDB)

	userService := service.NewUserService(userRepo, glucoseRepo, insulinRepo, alertRepo)
	glucoseService := service.NewGlucoseService(glucoseRepo, userRepo, alertRepo, sugar)
	insulinService := service.NewInsulinService(insulinRepo, sugar)
	alertService := service.NewAlertService(alertRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	backupService := service.NewBackupService(userRepo, glucoseRepo, insulinRepo, settingsRepo, alertRepo, backupRepo, restoreRepo, cfg.BackupDir, sugar)
	reportService := service.NewReportService(userRepo, glucoseRepo, insulinRepo, alertRepo)

	h := handlers.NewHandler(
		userService,
		glucoseService,
		insulinService,
		alertService,
		settingsService,
		backupService,
		reportService,
		sugar,
		cfg,
	)

	addr := cfg.RunAddress

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"RunAddress", cfg.RunAddress,
		"BackupDir", cfg.BackupDir,
		"TokenTTLMin", cfg.TokenTTLMin,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
