package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/authboard/internal/logging"
	"github.com/dmitrijs2005/authboard/internal/server"
	"github.com/dmitrijs2005/authboard/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
