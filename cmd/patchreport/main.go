package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"patchreport/internal/apperr"
	"patchreport/internal/config"
	"patchreport/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "patchreport.yaml", "path to configuration file (YAML)")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println(apperr.Message(fmt.Errorf("load config: %w", err)))
		return
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	logger.WithField("input", cfg.InputFile).Debug("generating patch report")

	// Failures are reported on stdout as a single line; the exit status stays zero.
	if err := pipeline.New(cfg, logger, os.Stdout).Run(); err != nil {
		logger.WithError(err).Debug("report generation failed")
		fmt.Println(apperr.Message(err))
	}
}
