package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"staffdesk/staffdesk/broker"
	"staffdesk/staffdesk/config"
	"staffdesk/staffdesk/database"
	"staffdesk/staffdesk/middleware"
	"staffdesk/staffdesk/routes"
	"staffdesk/staffdesk/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize NATS producer with better error handling
	natsAvailable := true
	if err := broker.InitProducer(cfg); err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but event dispatch will be disabled")
		natsAvailable = false
	} else {
		defer broker.CloseProducer()
	}

	// Outbox dispatcher only runs when the broker is reachable
	dispatcher := services.NewEventDispatcherService(db)
	services.EventDispatcherServiceInstance = dispatcher
	if natsAvailable {
		dispatcher.Start()
		defer dispatcher.Stop()
	} else {
		log.Println("Event dispatcher is disabled due to NATS unavailability")
	}

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Login is the only public endpoint
	routes.RegisterAuthRoutes(router, db, authService)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(authService))

	routes.RegisterUserRoutes(api, db, services.UserServiceInstance, authService)
	routes.RegisterTaskRoutes(api, db, services.TaskServiceInstance, services.TaskQueryServiceInstance)
	routes.RegisterAssignmentRoutes(api, db, services.AssignmentServiceInstance)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		broker.CloseProducer()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
