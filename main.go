package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"
	"gorm.io/gorm"

	"greenlens/controllers"
	"greenlens/geo"
	"greenlens/middlewares"
	"greenlens/models"
	"greenlens/planner"
	"greenlens/services"
	"greenlens/thumbnail"
	"greenlens/utils"
)

// corsMiddleware CORS for the configured web client origins, allowing:
// - PUT, GET, POST, PATCH and OPTIONS methods
// - Origin and Authorization headers
// - Credentials share
// - Preflight requests cached for 12 hours
func corsMiddleware(config *utils.Config) gin.HandlerFunc {
	origins := config.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"PUT", "GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// requestIDMiddleware Generate a UUID and attach it to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_uuid := uuid.NewV4()
		c.Writer.Header().Set("X-Request-Id", _uuid.String())
		c.Next()
	}
}

// newPlannerStore Planner sessions load their image and route snapshots
// from the database and persist new routes through it.
func newPlannerStore(config *utils.Config) *planner.Store {
	defaultView := planner.Viewport{
		Center: geo.Coordinate{
			Latitude:  config.Maps.DefaultLatitude,
			Longitude: config.Maps.DefaultLongitude,
		},
		Zoom: config.Maps.DefaultZoom,
	}

	save := func(name string, images []models.Image) (models.Route, error) {
		route := models.NewRoute(name, images)
		if err := models.DB.Create(&route).Error; err != nil {
			return models.Route{}, err
		}
		return route, nil
	}

	return planner.NewStore(func() (*planner.Planner, error) {
		var images []models.Image
		if err := models.DB.Order("captured_at desc").Find(&images).Error; err != nil {
			return nil, err
		}
		var routes []models.Route
		if err := models.DB.Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).Order("created_at desc").Find(&routes).Error; err != nil {
			return nil, err
		}
		return planner.New(images, routes, defaultView, config.Maps.ActiveZoom, save), nil
	})
}

// buildGeoIndex Index every stored image position for the nearby query.
func buildGeoIndex() *geo.Index {
	index := geo.NewIndex()
	var images []models.Image
	if err := models.DB.Find(&images).Error; err != nil {
		log.Fatal("could not load images for the spatial index: ", err)
	}
	for _, img := range images {
		index.Insert(img.ID, img.Coordinate())
	}
	log.Info(fmt.Sprintf("Indexed %d image positions", index.Size()))
	return index
}

func main() {
	log.Info("Starting Green Lens...")

	// Generate our config based on the config supplied
	// by the user in the flags
	configPath, debugMode, err := utils.ParseFlags()
	if err != nil {
		log.Fatal(err)
	}
	config, err := utils.NewConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Secrets (API_SECRET, MINIO_ACCESS_KEY, MINIO_SECRET_KEY) come from the
	// environment; a .env file is optional.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded: ", err)
	}

	// Debug mode enables gin-gonic debug mode
	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	models.ConnectDataBase(config)

	// Connect to the image store
	storage, err := services.NewStorage(context.Background(), config)
	if err != nil {
		log.Fatal("image store init failed: ", err)
	}

	index := buildGeoIndex()
	plannerStore := newPlannerStore(config)
	thumbCache := thumbnail.NewCache(5 * time.Minute)

	r := gin.Default()

	r.Use(corsMiddleware(config))
	r.Use(requestIDMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Version tag to test against
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "v0.1.0",
		})
	})

	api := r.Group("/api")
	v1 := api.Group("/v1")

	// Register and login controllers
	auth := v1.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login(config))
		auth.GET("/me", middlewares.JwtAuthMiddleware(), controllers.CurrentUser)
	}

	protected := v1.Group("")
	protected.Use(middlewares.JwtAuthMiddleware())
	{
		protected.POST("/upload", controllers.UploadImage(storage, index))
		protected.GET("/images", controllers.FindImages)
		protected.GET("/search/images", controllers.NearbyImages(index))
		protected.GET("/images/:id", controllers.FindImage)
		protected.GET("/images/:id/thumbnail.jpg", controllers.GetThumbnail(storage, thumbCache))

		protected.GET("/routes", controllers.FindRoutes)
		protected.GET("/routes/:id", controllers.FindRoute)
	}

	// Collectors traverse routes; the navigation link is theirs.
	collector := protected.Group("")
	collector.Use(middlewares.RequireRole(models.RoleCollector))
	{
		collector.GET("/routes/:id/navigation", controllers.RouteNavigation(config))
	}

	// Administrators curate routes and review images.
	admin := protected.Group("")
	admin.Use(middlewares.RequireAdmin())
	{
		admin.POST("/routes", controllers.CreateRoute)
		admin.PATCH("/images/:id/review", controllers.ReviewImage)

		admin.GET("/planner", controllers.PlannerState(plannerStore))
		admin.POST("/planner/select/:imageId", controllers.PlannerToggleSelect(plannerStore))
		admin.POST("/planner/load/:routeId", controllers.PlannerLoadRoute(plannerStore))
		admin.POST("/planner/save", controllers.PlannerSaveRoute(plannerStore))
		admin.POST("/planner/clear", controllers.PlannerClear(plannerStore))
		admin.POST("/planner/refresh", controllers.PlannerRefresh(plannerStore))
	}

	addr := fmt.Sprintf(":%s", config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	thumbCache.Stop()

	log.Info("Server exiting")
}
