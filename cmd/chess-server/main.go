// Package main implements the chess server: a RESTful game API over the
// rule engine with optional SQLite persistence of current positions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrelay/cmd/chess-server/cli"
	"chessrelay/internal/server/http"
	"chessrelay/internal/server/processor"
	"chessrelay/internal/server/service"
	"chessrelay/internal/server/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file (disables persistence if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	var pid *pidFile
	if *pidPath != "" {
		var err error
		if pid, err = acquirePIDFile(*pidPath, *pidLock); err != nil {
			log.Fatalf("Refusing to start: %v", err)
		}
		log.Printf("Recorded pid %d in %s (locked: %v)", os.Getpid(), *pidPath, *pidLock)
	}
	// fatal releases the pid file before exiting, since log.Fatalf skips defers
	fatal := func(format string, args ...any) {
		if err := pid.Release(); err != nil {
			log.Printf("Warning: %v", err)
		}
		log.Fatalf(format, args...)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			fatal("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			fatal("Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Service, reloading positions saved by a previous run
	svc := service.New(store)
	restored, err := svc.Restore()
	if err != nil {
		log.Printf("Warning: failed to restore games: %v", err)
	} else if restored > 0 {
		log.Printf("Restored %d game(s) from storage", restored)
	}

	// 3. Processor and HTTP app
	proc := processor.New(svc)
	app := http.NewFiberApp(proc, svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Chess API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("API Version: v1")
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Releases waiters, then flushes and closes storage
	if err = svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	// The pid outlives storage so a supervisor never starts a second server
	// against a database that is still being flushed
	if err = pid.Release(); err != nil {
		log.Printf("Warning: %v", err)
	}

	log.Println("Server exited")
}
