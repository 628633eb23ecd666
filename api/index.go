package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	"carnet-api/internal/config"
	"carnet-api/internal/server"
)

var (
	handler     http.Handler
	mu          sync.Mutex
	initErr     error
	initialized bool
)

// initHandler initializes the HTTP handler once and reuses it across
// invocations. Uses double-checked locking so warm serverless
// invocations skip the lock. Returns an error if initialization fails,
// allowing retry on the next request.
//
// Note: the storage client is not explicitly closed as the serverless
// runtime handles resource cleanup on function termination.
func initHandler() error {
	if initialized && initErr == nil {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return initErr
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		initErr = err
		initialized = true
		return err
	}

	svcs, err := server.InitServices(ctx, cfg)
	if err != nil {
		log.Printf("Failed to initialize services: %v", err)
		initErr = err
		initialized = true
		return err
	}

	// Only set handler and mark as initialized after full successful initialization
	handler = server.CreateHandler(svcs, cfg)
	initialized = true
	initErr = nil

	log.Println("Handler initialized successfully")
	return nil
}

// Handler is the Vercel serverless function entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	if err := initHandler(); err != nil {
		log.Printf("Handler initialization failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	handler.ServeHTTP(w, r)
}
