package routes

import (
	"fridgewise-backend/internal/api/handlers"
	"fridgewise-backend/internal/middleware"
	"fridgewise-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	UserHandler   handlers.UserHandler
	FoodHandler   handlers.FoodHandler
	RecipeHandler handlers.RecipeHandler
	MemoryHandler handlers.MemoryHandler
	Middleware    middleware.Middleware
	JWTService    jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.FoodItems()
	c.Recipes()
	c.Memory()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) FoodItems() {
	foodItems := c.App.Group("/api/v1/food-items", c.Middleware.AuthMiddleware(c.JWTService))
	foodItems.Get("/dashboard", c.FoodHandler.GetDashboardStats)

	foodItems.Post("", c.FoodHandler.AddFoodItem)
	foodItems.Get("", c.FoodHandler.GetInventory)
	foodItems.Delete("", c.FoodHandler.ClearInventory)

	// Restock and consumption
	foodItems.Post("/restock", c.FoodHandler.Restock)
	foodItems.Post("/restock-scan", c.FoodHandler.RestockFromScan)
	foodItems.Post("/consume", c.FoodHandler.ConsumeGroup)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	recipes.Post("/suggest", c.RecipeHandler.GetSuggestions)
}

func (c *Config) Memory() {
	memory := c.App.Group("/api/v1/memory", c.Middleware.AuthMiddleware(c.JWTService))
	memory.Get("", c.MemoryHandler.GetProfile)
	memory.Patch("", c.MemoryHandler.ApplyPatch)
	memory.Post("/infer", c.MemoryHandler.InferPatch)
	memory.Get("/history", c.MemoryHandler.GetHistory)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works"})
	})
}
