package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := cmd.Execute(version, commit, date); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
