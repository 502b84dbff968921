package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.WithError(err).Error("fhcalc")
		os.Exit(1)
	}
}
