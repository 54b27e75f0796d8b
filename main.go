package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fernlabs/storechat/api"
	"github.com/fernlabs/storechat/catalog"
	"github.com/fernlabs/storechat/completion"
	"github.com/fernlabs/storechat/config"
	"github.com/fernlabs/storechat/facts"
	"github.com/fernlabs/storechat/policy"
	"github.com/fernlabs/storechat/prompt"
	"github.com/fernlabs/storechat/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting storechat...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Shop domain: %s", cfg.ShopDomain)
	log.Printf("Retrieval mode: %s", cfg.RetrievalMode)

	// Initialize transcript store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize catalog syncer; an unconfigured provider leaves the
	// snapshot empty rather than failing startup.
	var catalogClient *catalog.Client
	if cfg.ShopDomain != "" && cfg.StorefrontToken != "" {
		catalogClient = catalog.NewClient("https://"+cfg.ShopDomain, cfg.StorefrontToken, cfg.StorefrontAPIVersion, 30*time.Second)
	}
	syncer := catalog.NewSyncer(catalogClient, cfg.CatalogPageSize, cfg.CatalogSyncInterval)

	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	go syncer.Run(syncCtx)

	// Load store facts once at startup
	storeFacts := facts.Load(cfg.StoreFactsPath)

	// Initialize completion gateway
	client := completion.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.CompletionTimeout)
	gateway := completion.NewGateway(client, cfg.CompletionModels)

	// Initialize chat policy engine
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize handler
	mode := prompt.ModeKeyword
	if cfg.RetrievalMode == config.RetrievalFull {
		mode = prompt.ModeFull
	}
	assembler := prompt.NewAssembler(mode, cfg.MatchLimit, cfg.CatalogPromptLimit)
	h := api.NewHandler(db, gateway, syncer, assembler, storeFacts, policyEngine, cfg)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("storechat started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storechat...")
	stopSync()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("storechat stopped")
}
