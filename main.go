package main

import (
	"time"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/MLeorio/FALL/config"
	"github.com/MLeorio/FALL/database"
	"github.com/MLeorio/FALL/handlers"
	"github.com/MLeorio/FALL/utils"
	"github.com/MLeorio/FALL/version"
)

const (
	EndPointDocs            = "/"
	EndPointHealth          = "/health"
	EndPointListings        = "/annonces"
	EndPointPublicListings  = "/annonces/public"
	EndPointPrivateListings = "/annonces/private"
	EndPointListing         = "/annonce/"
	EndPointListingById     = "/annonce/:id"
	EndPointPublishListing  = "/annonce/publier/:id"
	EndPointResolveListing  = "/annonce/done/:id"
	EndPointInstallation    = "/installation/"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg := config.Load()

	log.Info("Starting the fall-api service...")

	// Connect to database
	db, err := utils.DBConnect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize database schema
	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize services
	listingsService := database.NewListingsService(db)

	// Initialize handlers
	listingsHandler := handlers.NewListingsHandler(listingsService)

	// Setup router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, version.Get("fall-api"))
	})

	router.GET(EndPointDocs, listingsHandler.Docs)
	router.GET(EndPointHealth, listingsHandler.HealthCheck)

	router.GET(EndPointListings, listingsHandler.GetListings)
	router.GET(EndPointPublicListings, listingsHandler.GetPublicListings)
	router.GET(EndPointPrivateListings, listingsHandler.GetPrivateListings)
	router.POST(EndPointListing, listingsHandler.CreateListing)
	router.GET(EndPointListingById, listingsHandler.GetListing)
	router.PUT(EndPointListingById, listingsHandler.UpdateListing)
	router.GET(EndPointPublishListing, listingsHandler.PublishListing)
	router.GET(EndPointResolveListing, listingsHandler.ResolveListing)
	router.DELETE(EndPointListingById, listingsHandler.DeleteListing)
	router.POST(EndPointInstallation, listingsHandler.RegisterDevice)

	addr := cfg.Host + ":" + cfg.Port
	log.Infof("Listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
