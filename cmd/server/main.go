package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/academicrecords/internal/bootstrap"
	"anoa.com/academicrecords/internal/config"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	searchService "anoa.com/academicrecords/internal/modules/search/service"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/scheduler"
	"anoa.com/academicrecords/internal/server"
	"anoa.com/academicrecords/pkg/database"
	"anoa.com/academicrecords/pkg/flatfile"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	store, err := flatfile.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open data dir: %v", err)
	}

	users := userRepo.NewUserRepository(store)
	modules := moduleRepo.NewModuleRepository(store)
	grading := gradingRepo.NewGradingRepository(store)
	err = bootstrap.SeedIfEmpty(ctx, bootstrap.Repositories{
		Users:   users,
		Modules: modules,
		Classes: classRepo.NewClassRepository(store),
		Grading: grading,
	})
	if err != nil {
		log.Fatalf("failed to seed data: %v", err)
	}
	if err := bootstrap.SeedGradeScale(ctx, grading); err != nil {
		log.Fatalf("failed to seed grade scale: %v", err)
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	searchSvc := searchService.NewLocalSearchService()
	meiliClient, err := database.ConnectMeili(cfg.MeiliSearchHost, cfg.MeiliMasterKey)
	if err != nil {
		log.Printf("Search disabled: %v", err)
	} else if meiliClient != nil {
		searchSvc = searchService.NewMeiliSearchService(meiliClient)
	}
	if err := searchService.Reindex(ctx, searchSvc, users, modules); err != nil {
		log.Printf("Failed to reindex search: %v", err)
	}

	jobs := scheduler.New()
	if err := jobs.Register(scheduler.NewBackupJob(store, cfg.BackupDir, cfg.BackupSchedule, cfg.BackupRetain)); err != nil {
		log.Fatalf("failed to schedule backups: %v", err)
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewServer(cfg, store, redisClient, searchSvc).Handler(),
	}

	go func() {
		log.Printf("Listening on %s (data dir %s)", srv.Addr, store.Dir())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exited with error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
