package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mastermind-creat/techsafi/internal/ctl"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	if err := ctl.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
