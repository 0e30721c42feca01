package main

import (
	"github.com/joho/godotenv"

	"github.com/dvrpc/traffic-counts-api/cmd"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cmd.Execute()
}
