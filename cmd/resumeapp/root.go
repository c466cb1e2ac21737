package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/resumeapp/internal/client"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

const app = "resumeapp"

var (
	// Used for flags.
	cfgFile string
	v       = client.NewViper()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resumeapp is a command line client for the resume management web service",
		Long: "Without a subcommand resumeapp starts the interactive menu.\n" +
			"Configuration is read from " + client.DefaultConfigFile + " in the current directory.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.Run(cmd.Context())
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+client.DefaultConfigFile+" in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "directory for downloaded resumes")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("client.output-dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initLogging() {
	level := "warn"
	if v.GetBool("debug") {
		level = "debug"
	}
	logger.Init(logger.Config{Level: level, Format: "pretty", TimeFormat: "15:04:05", Output: os.Stderr})
}

// newShell loads the client config and prints any base URL warnings.
func newShell(cmd *cobra.Command) (*client.Shell, error) {
	cfg, warnings, err := client.LoadConfig(v, cfgFile)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		cmd.PrintErrf("**WARNING: %s\n", w)
	}

	var opts []client.Option
	if cfg.Token != "" {
		opts = append(opts, client.WithToken(cfg.Token))
	}
	api := client.New(cfg.WebService, opts...)
	return client.NewShell(api, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.OutputDir), nil
}
