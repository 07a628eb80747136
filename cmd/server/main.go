package main

import (
	"log"

	"github.com/ourunion/unionhub/internal/server"
	"github.com/ourunion/unionhub/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}

	app.Run()
}
