package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"url-roaster/internal/api"
	"url-roaster/internal/config"
	"url-roaster/internal/heygen"
	"url-roaster/internal/jobs"
	"url-roaster/internal/roast"
	"url-roaster/internal/scrape"
	"url-roaster/internal/script"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	pipeline := roast.NewPipeline(
		scrape.New(cfg),
		script.NewComposer(cfg),
		heygen.NewClient(cfg),
	)
	manager := jobs.NewManager(pipeline)
	defer manager.Close()

	r := api.SetupRouter(pipeline, manager)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s\n", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
