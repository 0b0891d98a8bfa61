package main

import (
	"github.com/joho/godotenv"

	"github.com/postforge/postforge/cli"
	"github.com/postforge/postforge/logger"
)

func main() {
	godotenv.Load()
	logger.InitLogger()
	cli.Execute()
}
