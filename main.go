package main

import (
	"context"
	"os/signal"
	"syscall"

	"lasalleserve/app"
	"lasalleserve/db"
	"lasalleserve/routes"

	"go.uber.org/zap"
)

func main() {
	app.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := db.NewRepo(application.DB)
	app.BootstrapFirstAdmin(ctx, application.Config, repo, application.Log)
	db.StartSweeper(ctx, repo, application.Log)

	routes.RegisterRoutes(application.Router, application)

	application.Log.Info("listening", zap.String("port", application.Config.Port))
	if err := application.Router.Run(":" + application.Config.Port); err != nil {
		application.Log.Fatal("server stopped", zap.Error(err))
	}
}
