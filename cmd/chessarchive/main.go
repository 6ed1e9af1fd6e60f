package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/mcoot/chessarchive/internal/cli"
)

func main() {
	cli.Execute()
}
