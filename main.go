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

	"cleanify-client/config"
	"cleanify-client/internal/backend"
	"cleanify-client/internal/handler"
	"cleanify-client/internal/model"
	"cleanify-client/internal/service"
	"cleanify-client/internal/session"
	"cleanify-client/internal/stream"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig("config/config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Backend.BaseURL == "" {
		log.Fatal("Backend base URL is not configured")
	}

	// Open device storage
	store, err := session.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()
	log.Printf("Device storage at %s", cfg.Storage.Path)

	ledgers := session.NewManager(store)

	// Backend client
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout())
	log.Printf("Backend at %s", cfg.Backend.BaseURL)

	// Initialize map stream hub
	hub := stream.NewHub()
	go hub.Run()

	// Initialize services
	reportService := service.NewReportService(client, ledgers, cfg.Refresh.NearbyRadiusM)
	voteService := service.NewVoteService(client, ledgers)
	facilityService := service.NewFacilityService(client)
	profileService := service.NewProfileService(client, ledgers)
	chatService := service.NewChatService(client, ledgers)
	mapService := service.NewMapService(hub)

	// Open the two live map panels
	if err := mapService.OpenView("reports", cfg.RefreshInterval(), reportFetcher(client, cfg.Refresh.NearbyRadiusM)); err != nil {
		log.Fatalf("Failed to open reports view: %v", err)
	}
	if err := mapService.OpenView("toilets", cfg.RefreshInterval(), facilityFetcher(client)); err != nil {
		log.Fatalf("Failed to open toilets view: %v", err)
	}
	defer mapService.CloseAll()

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService)
	voteHandler := handler.NewVoteHandler(voteService)
	facilityHandler := handler.NewFacilityHandler(facilityService)
	profileHandler := handler.NewProfileHandler(profileService)
	chatHandler := handler.NewChatHandler(chatService)
	mapHandler := handler.NewMapHandler(mapService)

	// Setup Gin
	r := gin.Default()

	// Health check
	r.GET("/health", reportHandler.Health)

	// Report routes
	r.GET("/reports", reportHandler.GetReports)
	r.POST("/reports", reportHandler.CreateReport)
	r.GET("/reports/:id", reportHandler.GetReportByID)
	r.POST("/reports/:id/vote", voteHandler.CastVote)
	r.GET("/reports/:id/vote", voteHandler.GetVote)

	// Facility routes
	r.GET("/toilets", facilityHandler.GetFacilities)
	r.POST("/toilets", facilityHandler.CreateFacility)
	r.PATCH("/toilets/:id/status", facilityHandler.UpdateStatus)
	r.DELETE("/toilets/:id", facilityHandler.DeleteFacility)

	// Profile routes
	r.GET("/profile/badge", profileHandler.GetBadge)
	r.PUT("/profile/email", profileHandler.UpdateEmail)

	// Chat routes
	r.GET("/chat", chatHandler.GetMessages)
	r.POST("/chat", chatHandler.SendMessage)

	// Map view routes
	maps := r.Group("/map/:view")
	{
		maps.GET("/stream", mapHandler.Stream)
		maps.PUT("/selection/:id", mapHandler.Select)
		maps.DELETE("/selection", mapHandler.ClearSelection)
		maps.PUT("/reference", mapHandler.SetReference)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\nShutdown signal received...")
		mapService.CloseAll()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Cleanify client starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Println("Cleanify client stopped gracefully")
}

// reportFetcher loads the report layer for the map. With a device fix it
// asks the backend for the nearby slice, otherwise the full list.
func reportFetcher(client *backend.Client, radiusM float64) service.FetchFunc {
	return func(ctx context.Context, ref *model.Point) ([]model.Located, error) {
		var (
			reports []model.Report
			err     error
		)
		if ref != nil {
			reports, err = client.ListReportsNearby(ctx, *ref, radiusM)
		} else {
			reports, err = client.ListReports(ctx)
		}
		if err != nil {
			return nil, err
		}
		located := make([]model.Located, len(reports))
		for i, r := range reports {
			located[i] = r
		}
		return located, nil
	}
}

func facilityFetcher(client *backend.Client) service.FetchFunc {
	return func(ctx context.Context, ref *model.Point) ([]model.Located, error) {
		facilities, err := client.ListFacilities(ctx, ref)
		if err != nil {
			return nil, err
		}
		located := make([]model.Located, len(facilities))
		for i, f := range facilities {
			located[i] = f
		}
		return located, nil
	}
}
