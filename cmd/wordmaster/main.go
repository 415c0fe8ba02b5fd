package main

import (
	"github.com/joho/godotenv"

	"github.com/mcoot/wordmaster/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
