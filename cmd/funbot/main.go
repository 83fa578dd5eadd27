package main

import (
	"log"

	"github.com/joho/godotenv"

	"funbot/bot"
	corecmd "funbot/core/cmd"
	coreconfig "funbot/core/config"
	coretelegram "funbot/core/telegram"
)

func main() {
	// Secrets may come from a local .env during development; missing file is fine.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		Build:             buildApp,
	})
	if err != nil {
		log.Fatalf("funbot: %v", err)
	}
}

func buildApp(cfg *coreconfig.Config) (coretelegram.RunOptions, func(), error) {
	app := bot.New(cfg)
	opts := coretelegram.RunOptions{
		Config:      cfg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      app.Routes(),
		Commands:    app.Commands(),
	}
	return opts, app.Close, nil
}
