/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the compensation and eligibility engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags (environment variables as defaults)
  2. Load and validate the decision policy
  3. Initialize SQLite store
  4. Optionally connect the Redis profile cache
  5. Create service, API handler and router
  6. Start payroll scheduler and HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port              HTTP server port (default: 8080, env PORT)
  -db                SQLite database path (default: payroll.db, env DATABASE_PATH)
                     Use ":memory:" for in-memory database
  -policy            Decision policy file, .json or .yaml (env POLICY_FILE)
                     Built-in defaults when empty
  -redis             Redis address for the profile cache (env REDIS_ADDR)
                     In-process cache when empty
  -cache-ttl         Profile cache TTL (default: 5m)
  -payroll-interval  Contribution posting interval, 0 disables (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the payroll scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close cache and database connections
  5. Exit

EXAMPLES:
  # Run with file database and a custom policy
  ./server -db="./data/payroll.db" -policy=./policy.yaml

  # Run with in-memory database and shared cache
  ./server -db=":memory:" -redis=localhost:6379

SEE ALSO:
  - api/server.go: Router configuration
  - factory/policy.go: Policy file format
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/warp/compensation-engine/api"
	"github.com/warp/compensation-engine/cache"
	"github.com/warp/compensation-engine/factory"
	"github.com/warp/compensation-engine/service"
	"github.com/warp/compensation-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", getenvInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", getenv("DATABASE_PATH", "payroll.db"), "SQLite database path")
	policyPath := flag.String("policy", os.Getenv("POLICY_FILE"), "Decision policy file (.json or .yaml)")
	redisAddr := flag.String("redis", os.Getenv("REDIS_ADDR"), "Redis address for the profile cache")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Profile cache TTL")
	payrollInterval := flag.Duration("payroll-interval", time.Hour, "Contribution posting interval (0 disables)")
	flag.Parse()

	// Decision policy
	policy, err := factory.LoadPolicyFile(*policyPath)
	if err != nil {
		log.Fatalf("Failed to load decision policy: %v", err)
	}
	log.Printf("Decision policy %q loaded", policy.Version)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Profile cache
	var profileCache cache.Cache = cache.NewMemory()
	if *redisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedis(ctx, *redisAddr)
		cancel()
		if err != nil {
			log.Printf("Warning: %v; using in-process cache", err)
		} else {
			defer rc.Close()
			profileCache = rc
			log.Printf("Profile cache: redis at %s", *redisAddr)
		}
	}
	profiles := cache.NewCachedProfiles(store, profileCache, *cacheTTL)

	// Service + handler
	svc := service.New(policy, service.Deps{
		Employees:     profiles,
		Contributions: store,
		Ledger:        store,
		LoanTypes:     store,
		Evaluations:   store,
	})
	handler := api.NewHandler(svc, store)

	// Create router
	router := api.NewRouter(handler)

	// Payroll scheduler
	scheduler := api.NewPayrollScheduler(handler)
	scheduler.CheckInterval = *payrollInterval
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
