package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/gophportal/internal/server"
	"github.com/dmitrijs2005/gophportal/internal/server/config"
	"github.com/google/gops/agent"
)

func main() {

	// gops diagnostics agent on a random local port
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops agent: %v", err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
