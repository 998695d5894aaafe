package cmd

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/output"
	"github.com/adamancini/ffupdate/internal/update"
)

// newService builds a service from the global flags.
func newService(progress update.ProgressFunc) (*Service, error) {
	return NewService(Options{
		ConfigPath: configPath,
		Inventory:  inventoryPath,
		ABI:        abiFlag,
		Serial:     serial,
		Progress:   progress,
	}, logrus.StandardLogger())
}

// newWriter returns an output writer for the --output flag.
func newWriter(w io.Writer) (*output.Writer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewWriter(w, format), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
