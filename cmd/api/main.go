package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"property-portal/internal/cleanup"
	"property-portal/internal/config"
	"property-portal/internal/database"
	"property-portal/internal/handlers"
	"property-portal/internal/middleware"
	"property-portal/internal/search"
	"property-portal/internal/storage"
)

func main() {
	// Load .env if present; real deployments use the environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}
	applyEnvOverrides(appConfig)

	if appConfig.Auth.JWTSecret == "" {
		log.Fatal("JWT secret is required (auth.jwt_secret or JWT_SECRET)")
	}

	db, err := database.New(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	searchClient := search.NewClient(
		getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700"),
		getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "masterKey123"),
	)
	if err := searchClient.InitIndex(); err != nil {
		log.Printf("Warning: Failed to initialize search index: %v", err)
	}

	store := storage.NewStore(appConfig.Storage.PublicDir)

	cleanupService := cleanup.NewService(db, store)
	if appConfig.Cleanup.Enabled {
		if err := cleanupService.Start(appConfig.Cleanup.DailyRunTime, appConfig.Cleanup.Retention()); err != nil {
			log.Printf("Warning: Failed to start cleanup schedule: %v", err)
		}
		defer cleanupService.Stop()
	}

	propertyHandler := handlers.NewPropertyHandler(db, store, searchClient)
	reviewHandler := handlers.NewReviewHandler(db, store)
	userHandler := handlers.NewUserHandler(db, appConfig.Auth, appConfig.Server.CookieDomain)
	adminHandler := handlers.NewAdminHandler(cleanupService, appConfig.Cleanup.Retention())

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)

	requireAuth := middleware.Auth(db, appConfig.Auth.JWTSecret)

	property := r.Group("/api/v1/property")
	{
		property.GET("", propertyHandler.List)
		property.GET("/search", propertyHandler.Search)
		property.POST("/reindex", requireAuth, middleware.RequireAdmin(), propertyHandler.Reindex)
		property.GET("/:_id", propertyHandler.Get)
		property.POST("", propertyHandler.Create)
		property.PATCH("/update-images/:_id", propertyHandler.UpdateImages)
		property.PATCH("/:_id", propertyHandler.Update)
		property.DELETE("/:_id", propertyHandler.Delete)
	}

	review := r.Group("/api/v1/review")
	{
		review.GET("", reviewHandler.List)
		review.POST("", reviewHandler.Create)
		review.DELETE("/:_id", reviewHandler.Delete)
	}

	user := r.Group("/api/v1/user")
	{
		user.POST("", userHandler.Create)
		user.POST("/admin", userHandler.CreateAdmin)
		user.POST("/login", userHandler.Login)
		user.POST("/logout", userHandler.Logout)
		user.GET("/check-auth", requireAuth, userHandler.CheckAuth)
	}

	admin := r.Group("/api/v1/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
	}

	port := getEnvOrConfig(appConfig.Server.Port, "PORT", "5000")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

// applyEnvOverrides lets the environment fill anything the YAML file
// left blank.
func applyEnvOverrides(cfg *config.Config) {
	cfg.Auth.JWTSecret = getEnvOrConfig(cfg.Auth.JWTSecret, "JWT_SECRET", "")
	cfg.Server.CookieDomain = getEnvOrConfig(cfg.Server.CookieDomain, "COOKIE_DOMAIN", "")
	cfg.Storage.PublicDir = getEnvOrConfig(cfg.Storage.PublicDir, "PUBLIC_DIR", "public")

	if cfg.Database.Type == "" {
		cfg.Database.Type = getEnv("DB_TYPE", "mysql")
	}
	if cfg.Database.Type == "postgres" {
		pg := &cfg.Database.Postgres
		pg.Host = getEnvOrConfig(pg.Host, "DB_HOST", "db")
		pg.User = getEnvOrConfig(pg.User, "DB_USER", "portal_user")
		pg.Password = getEnvOrConfig(pg.Password, "DB_PASSWORD", "portal_pass")
		pg.Database = getEnvOrConfig(pg.Database, "DB_NAME", "portal_db")
		if pg.Port == 0 {
			pg.Port = envInt("DB_PORT", 5432)
		}
	} else {
		my := &cfg.Database.MySQL
		my.Host = getEnvOrConfig(my.Host, "DB_HOST", "mysql")
		my.User = getEnvOrConfig(my.User, "DB_USER", "portal_user")
		my.Password = getEnvOrConfig(my.Password, "DB_PASSWORD", "portal_pass")
		my.Database = getEnvOrConfig(my.Database, "DB_NAME", "portal_db")
		if my.Port == 0 {
			my.Port = envInt("DB_PORT", 3306)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to
// environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
