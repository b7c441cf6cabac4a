package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/staffkeeper/internal/server"
	"github.com/dmitrijs2005/staffkeeper/internal/server/config"
)

func main() {

	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
