package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"chat-relay/internal/api"
	"chat-relay/internal/config"
	"chat-relay/internal/llm"
	"chat-relay/internal/memory"
	redisdb "chat-relay/internal/redis"
	"chat-relay/internal/reflection"
)

func main() {
	// .env is optional; API keys may come from the real environment instead
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	rdb := redisdb.NewClient(cfg)
	store := reflection.NewStore(rdb)
	client := llm.NewClient(cfg.Upstream.URL)
	mem := memory.NewClient(cfg.Memory.URL)

	r := api.SetupRouter(cfg, client, store, mem)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s\n", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
