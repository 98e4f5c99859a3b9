package main

import (
	"github.com/joho/godotenv"
	"github.com/kotrzina/calassist/cmd"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	cmd.Execute()
}
