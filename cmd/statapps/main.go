// Command statapps runs the statistics teaching demos from the command line.
package main

import (
	"log"
	"os"

	"github.com/mwaskom/StatApps/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
