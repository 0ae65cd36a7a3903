package main

import (
	"log"

	"github.com/m3rciful/keeperbot/config"
	corecmd "github.com/m3rciful/keeperbot/core/cmd"
	"github.com/m3rciful/keeperbot/internal/bot"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.NewApp(cfg.(*config.Config))
		},
	})
	if err != nil {
		log.Fatalf("keeperbot: %v", err)
	}
}
