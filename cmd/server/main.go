package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/relder2/audiosnag/internal/config"
	"github.com/relder2/audiosnag/internal/middleware"
	"github.com/relder2/audiosnag/internal/server"
	"github.com/relder2/audiosnag/internal/store"
	"github.com/relder2/audiosnag/internal/util"
)

func main() {
	godotenv.Load()
	config.Load()

	util.CheckDependencies()
	server.EnsureTempDirs()
	store.Init()

	middleware.StartRateLimitCleanup()
	util.StartCleanupInterval()

	srv := server.New()
	server.PrintBanner()

	go func() {
		log.Printf("Listening on :%s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped.")
}
