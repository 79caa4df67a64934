package main

import (
	"log"

	"github.com/joho/godotenv"

	"fridgewise-backend/cmd/config"
	migration "fridgewise-backend/cmd/database/migrate"
	"fridgewise-backend/internal/ops"
	"fridgewise-backend/internal/utils"
	"fridgewise-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	utils.LoadConfig()

	appLogger := logger.New(utils.GetConfig("LOG_LEVEL"))

	db, err := config.ConnectDB()
	if err != nil {
		appLogger.Fatalf("failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		appLogger.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db, appLogger)
	if err != nil {
		appLogger.Fatalf("failed to set up application: %v", err)
	}

	opsAddr := utils.GetConfig("OPS_ADDR")
	if opsAddr == "" {
		opsAddr = ":9090"
	}
	opsServer := ops.NewServer(appLogger)
	go func() {
		if err := opsServer.ListenAndServe(opsAddr); err != nil {
			appLogger.Errorf("ops server error: %v", err)
		}
	}()

	port := utils.GetConfig("PORT")
	if port == "" {
		port = "8080"
	}
	appLogger.Infof("api listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		appLogger.Fatalf("server stopped: %v", err)
	}
}
