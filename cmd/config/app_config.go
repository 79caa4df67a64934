package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fridgewise-backend/internal/api/handlers"
	"fridgewise-backend/internal/api/routes"
	"fridgewise-backend/internal/middleware"
	"fridgewise-backend/internal/utils"
	"fridgewise-backend/internal/utils/storage"
	"fridgewise-backend/pkg/ai"
	"fridgewise-backend/pkg/food"
	"fridgewise-backend/pkg/jwt"
	"fridgewise-backend/pkg/memorystore"
	"fridgewise-backend/pkg/recipe"
	"fridgewise-backend/pkg/user"
)

func NewApp(db *gorm.DB, appLogger *logrus.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	gemini := ai.NewGeminiClient(appLogger)

	// Repository
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)
	memoryRepository := memorystore.NewMemoryRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	memoryService := memorystore.NewMemoryService(memoryRepository, gemini, appLogger)
	foodService := food.NewFoodService(foodRepository, memoryService, gemini, s3, appLogger)
	recipeService := recipe.NewRecipeService(foodRepository, memoryService, gemini, appLogger)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	foodHandler := handlers.NewFoodHandler(foodService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	memoryHandler := handlers.NewMemoryHandler(memoryService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		UserHandler:   userHandler,
		FoodHandler:   foodHandler,
		RecipeHandler: recipeHandler,
		MemoryHandler: memoryHandler,
		Middleware:    middlewares,
		JWTService:    jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
