package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"waterglobe/internal/config"
	"waterglobe/internal/container"
)

// Serves only the JSON API, at the root, for clients that bring their own page.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())
	appContainer.Preload(context.Background())

	server := &http.Server{
		Addr:         appConfig.Addr(),
		Handler:      appContainer.Engine(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}
	log.Printf("Starting API server on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed:", err)
	}
}
