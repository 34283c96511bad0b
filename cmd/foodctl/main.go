package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/aaleksaaleksic/food-ordering-system/internal/client/cli"
)

func main() {
	_ = godotenv.Load()

	server := os.Getenv("FOODCTL_SERVER")
	if server == "" {
		server = "http://127.0.0.1:8080"
	}
	tokenPath := os.Getenv("FOODCTL_TOKEN_FILE")
	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot resolve home directory: %v\n", err)
			os.Exit(1)
		}
		tokenPath = filepath.Join(home, ".foodctl", "token")
	}

	app := cli.NewApp(server, tokenPath, os.Stdout)
	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
