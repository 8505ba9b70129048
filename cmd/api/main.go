package main

import (
	"context"
	"os"

	"github.com/foodlink/foodlink-backend/internal/config"
	"github.com/foodlink/foodlink-backend/internal/db"
	"github.com/foodlink/foodlink-backend/internal/logger"
	"github.com/foodlink/foodlink-backend/internal/model"
	"github.com/foodlink/foodlink-backend/internal/server"
	"github.com/foodlink/foodlink-backend/internal/storage"
	"github.com/joho/godotenv"
)

var (
	sha       = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()
	log := logger.New("foodlink-api")

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", logger.Error(err))
		os.Exit(1)
	}

	var uploader storage.Uploader
	if cfg.StorageBucket != "" {
		up, err := storage.NewGCSUploader(context.Background(), cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			log.Warn("photo storage unavailable", logger.Error(err))
		} else {
			uploader = up
		}
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", logger.Error(err))
		os.Exit(1)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.FoodItem{},
		&model.FoodItemPhoto{},
		&model.PickupRequest{},
		&model.Notification{},
	); err != nil {
		log.Error("auto migrate failed", logger.Error(err))
		os.Exit(1)
	}

	srv := server.New(conn, uploader, log, cfg.AdminToken, sha, buildTime)
	addr := ":" + cfg.Port
	log.Info("starting server", logger.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
