// Package main provides the flight tracking application
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/DiLuccaDev/FlightTracker/internal"
	"github.com/DiLuccaDev/FlightTracker/tickerapp"
	"github.com/DiLuccaDev/FlightTracker/tuiapp"
)

const (
	// thisAppName is the name of this application as shown on notifications.
	thisAppName = "flighttracker"
)

func main() {
	var argIsUseTicker bool
	var argConfigPath string
	var argLatLon []float64
	var argVerbose bool

	setupCommandLineFlags(&argIsUseTicker, &argConfigPath, &argLatLon, &argVerbose)

	// Parse all arguments provided to the program on launch.
	pflag.Parse()

	creds, credsErr := internal.LoadCredentials()
	if credsErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", credsErr)
		os.Exit(1)
	}

	cfg, cfgErr := internal.LoadConfig(argConfigPath)
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", cfgErr)
		os.Exit(1)
	}

	// Command line location overrides the config file.
	if pflag.Lookup("latlon").Changed && len(argLatLon) == 2 {
		cfg.HomeLat = argLatLon[0]
		cfg.HomeLon = argLatLon[1]
	}

	if argIsUseTicker {
		tickerapp.Run(thisAppName, cfg, creds, argVerbose)
	} else {
		tuiapp.Run(thisAppName, cfg, creds, argVerbose)
	}
}

func setupCommandLineFlags(
	argIsUseTicker *bool,
	argConfigPath *string,
	argLatLon *[]float64,
	argVerbose *bool,
) {
	// Whether to launch the Ticker or TUI app.
	pflag.BoolVarP(
		argIsUseTicker,
		"ticker",
		"t",
		false,
		"print tracking information on the command line without TUI")
	pflag.Lookup("ticker").NoOptDefVal = "true"

	pflag.StringVarP(
		argConfigPath,
		"config",
		"c",
		"./config.yaml",
		"path to the settings file")

	// Location to track planes at, provided as lat,lon coordinates.
	pflag.Float64SliceVarP(
		argLatLon,
		"latlon",
		"l",
		[]float64{0, 0},
		"override the home location from the settings file")

	pflag.BoolVarP(
		argVerbose,
		"verbose",
		"v",
		false,
		"enable debug logging")
}
