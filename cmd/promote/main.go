// Command promote grants the owner role to an existing user.
//
//	promote -email editor@example.com
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"quillpost/internal/app"
	"quillpost/internal/config"
	"quillpost/internal/pkg/logger"
	"quillpost/internal/platform/database"
	"quillpost/internal/repository"
)

func main() {
	os.Exit(run())
}

func run() int {
	email := flag.String("email", "", "email of the user to promote")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "error", err)
		return 1
	}
	log := logger.New(os.Stderr, cfg.Log.Level, "promote", cfg.App.Env)

	if *email == "" {
		flag.Usage()
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		log.Error("connect database failed", "error", err)
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database failed", "error", err)
		}
	}()

	authService := app.NewAuthService(
		repository.NewUserRepository(db),
		nil,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	if err := authService.PromoteToOwner(ctx, *email); err != nil {
		log.Error("promote failed", "email", *email, "error", err)
		return 1
	}
	log.Info("user promoted to owner", "email", *email)
	return 0
}
