package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"cellar/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
