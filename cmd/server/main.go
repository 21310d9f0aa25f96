package main

import (
	"itops-backend/internal/config"
	"itops-backend/internal/database"
	"itops-backend/internal/logs"
	"itops-backend/internal/server"
)

func main() {
	cfg := config.MustLoad()

	logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	database.Init(cfg)

	app := server.New(cfg)

	logs.Logger.Infof("Server çalışıyor port: %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logs.Logger.Fatal(err)
	}
}
