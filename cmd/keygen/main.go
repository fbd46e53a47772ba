package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/duty-roster-go/internal/config"
	"github.com/arnavshah/duty-roster-go/pkg/auth"
)

func main() {
	cfg, _ := config.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	if cfg.APIMasterSecret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in environment or .env")
		os.Exit(1)
	}

	userID := os.Args[1]
	apiKey := auth.NewAuthenticator(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
