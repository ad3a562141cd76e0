package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"waterglobe/internal/config"
	"waterglobe/internal/container"
	"waterglobe/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	appContainer.Preload(context.Background())

	// Initialize web server with the JSON API mounted under its prefix
	app, err := ui.NewApp(ui.Config{
		Addr:         appConfig.Addr(),
		APIPrefix:    appConfig.Server.APIPrefix,
		FlagBaseURL:  appConfig.Assets.FlagCDNURL,
		WaterMapDir:  appConfig.Assets.WaterMapDir,
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}, appContainer.World, appContainer.Engine(), appContainer.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-stop:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(ctx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
		}
	}
}
