package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Anthya1104/raid6store/internal/cli"
	"github.com/Anthya1104/raid6store/internal/config"
	"github.com/Anthya1104/raid6store/internal/logger"
)

func main() {
	// Bootstrap logging to stdout at the default level before cfgPath/
	// log-level flags are parsed; openController re-initializes logging
	// from the loaded config (and an explicit --log-level override) once
	// a subcommand actually needs the array.
	if err := logger.InitLogger(config.LogLevelInfo); err != nil {
		logrus.Fatalf("error initializing logger: %v", err)
	}

	if err := cli.ExecuteCmd(); err != nil {
		logrus.Fatalf("error executing command: %v", err)
		os.Exit(1)
	}
}
