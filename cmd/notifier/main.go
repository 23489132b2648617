package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/vamazon/internal/notifier"
	"github.com/dmitrijs2005/vamazon/internal/notifier/config"
)

func main() {
	cfg := config.LoadConfig()
	app, err := notifier.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(context.Background())
}
