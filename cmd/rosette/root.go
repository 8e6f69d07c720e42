package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	userKey    string
	serviceURL string
	debug      bool
	timeout    time.Duration

	rootCmd = &cobra.Command{
		Use:   "rosette",
		Short: "Command line client for the Rosette text analytics API",
		Long: `rosette sends documents and names to the Rosette API and prints the JSON reply.

Settings are read from --config, then ROSETTE_* environment variables
(ROSETTE_USER_KEY, ROSETTE_SERVICE_URL, ...), then flags.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&userKey, "key", "", "Rosette API key")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", "", "service URL (default "+config.DefaultServiceURL+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "send debug=true and log requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline of the command")

	rootCmd.AddCommand(pingCmd, infoCmd, callCmd)
}

// newClient builds a client from the config file, environment and flags.
func newClient() (*sdk.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if userKey != "" {
		cfg.UserKey = userKey
	}
	if serviceURL != "" {
		cfg.ServiceURL = serviceURL
	}
	if debug {
		cfg.Debug = true
	}
	return sdk.New(cfg)
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
