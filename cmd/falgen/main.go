package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nunomen/falgen/pkg/logger"
	"github.com/nunomen/falgen/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("FALGEN")
	viper.AutomaticEnv()

	// The credential follows the fal.ai convention (FAL_API_KEY) and also
	// accepts the prefixed form.
	viper.BindEnv("api_key", "FALGEN_API_KEY", "FAL_API_KEY")

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.falgen")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "falgen",
	Short: "Generate images, video and speech with fal.ai models",
	Long: `falgen is a command line client for the fal.ai generative media APIs.
It submits generation jobs to the fal.ai queue, waits for them to complete
and downloads the resulting artifacts.

Set FAL_API_KEY with a key from https://fal.ai/dashboard/keys before use.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning("Invalid log level, using info")
			logger.SetLogLevel("info")
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to apply")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(animateCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(speechCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
