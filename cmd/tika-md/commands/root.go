// Package commands implements the CLI commands for tika-md.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lloydzhou/tika-parser/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tika-md",
	Short: "Convert Tika XHTML output into clean Markdown",
	Long: `tika-md turns the XHTML that Apache Tika extracts from office documents
and PDFs into Markdown suitable for search, embedding and LLM context.

Repeated page headers and footers, attachment listings and trailing
filename lists are removed, tables get a header row, and images get
alt text synthesized from the surrounding prose. Images found in an
attachment archive are embedded as data URIs.

Examples:
  # Convert one document
  tika-md convert report.html -o report.md

  # Use Tika's /rmeta output and its /unpack archive
  tika-md convert report.json --attachments report.zip

  # Convert a directory of documents, eight at a time
  tika-md batch ./extracted --out-dir ./markdown -c 8 --report report.jsonl`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.tika-md.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".tika-md")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. TIKA_MD_LOG_LEVEL
	viper.SetEnvPrefix("TIKA_MD")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// setupLogging configures the process logger from flags and config.
func setupLogging() {
	err := logger.Init(logger.Options{
		Level: viper.GetString("log_level"),
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if err != nil {
		logger.Warn("invalid log level, using info", "error", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", "path", used)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
