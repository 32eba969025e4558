// Package cmd implements the command-line interface for the crawler.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/medium-crawler/cmd/crawl"
	"github.com/jonesrussell/medium-crawler/cmd/httpd"
	cmdscheduler "github.com/jonesrussell/medium-crawler/cmd/scheduler"
	"github.com/jonesrussell/medium-crawler/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "medium-crawler",
		Short: "A tag-driven article crawler",
		Long:  `Crawls tagged articles from Medium RSS feeds, extracts metadata, and persists them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	if err := initConfig(); err != nil {
		return fmt.Errorf("initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("medium-crawler version 1.0.0")
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
}

// initConfig wires Viper and applies debug overrides from the flag.
func initConfig() error {
	// Parse flags early so --config and --debug reach Viper before load.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := config.Init(cfgFile); err != nil {
		return err
	}

	if debug || viper.GetBool("app.debug") {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	return nil
}
