package main

import (
	"github.com/m3rciful/groupcaster/broadcast/app"
	"github.com/m3rciful/groupcaster/core/cmd"
)

func main() {
	cmd.Main(cmd.Options{
		DefaultConfigPath: "config.yaml",
		EnvFiles:          []string{".env"},
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config), app.BootstrapOptions{})
		},
	})
}
