package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm/logger"

	"voidstate/internal/config"
	"voidstate/internal/crypto"
	"voidstate/internal/database"
	"voidstate/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	if database.IsDevelopment() {
		// .env is optional; only dev builds look for it
		_ = utils.LoadEnv()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = database.GetDefaultDBPath()
	}
	db, err := database.Init(database.Config{
		Path:     dbPath,
		LogLevel: gormLogLevel(cfg.LogLevel),
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}

	cryptoService, err := crypto.NewKeyringCrypto()
	if err != nil {
		fmt.Println("Error initializing crypto:", err)
		os.Exit(1)
	}

	app := NewApp(cfg, db, cryptoService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.startup(ctx); err != nil {
		fmt.Println("Error starting app:", err)
		os.Exit(1)
	}

	log.Printf("voidstate ready (db=%s)", dbPath)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	app.shutdown(ctx)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
