package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhalloway/textgrab/pkg/textgrab/config"
	"github.com/dhalloway/textgrab/pkg/textgrab/logging"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "textgrab [path]",
		Short: "Collect text file contents from a directory tree",
		Long: `Textgrab walks a directory tree, classifies files as text or binary,
reads bounded content from the text files, and writes a consolidated
report in one of several formats.

Examples:
  textgrab                         # Scan current directory, print report
  textgrab ~/project               # Scan a specific directory
  textgrab -f json -o report.json  # Write a JSON report to a file
  textgrab -z zstd -o report.txt   # Compress the written report
  textgrab --hidden .              # Include hidden files and directories
  textgrab config show             # Show configuration
  textgrab cache stats             # Show verdict cache statistics`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/textgrab/config.yaml)")
	rootCmd.PersistentFlags().StringP("max-size", "s", "", "default per-file read cap (e.g., 8K, 1M)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=config default)")
	rootCmd.PersistentFlags().Bool("hidden", false, "include hidden files and directories")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format (txt, json, jsonl, yaml, csv, tsv, markdown, table, pretty)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write report to file instead of stdout")
	rootCmd.PersistentFlags().StringP("compression", "z", "", "compression for written reports (gzip, zstd, xz, none)")
	rootCmd.PersistentFlags().Bool("persist-cache", false, "persist text verdicts on disk between runs")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("max_file_size", rootCmd.PersistentFlags().Lookup("max-size"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("hidden", rootCmd.PersistentFlags().Lookup("hidden"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("compression", rootCmd.PersistentFlags().Lookup("compression"))
	_ = viper.BindPFlag("cache.persist", rootCmd.PersistentFlags().Lookup("persist-cache"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "textgrab"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "textgrab"))
		}
	}

	viper.SetEnvPrefix("TEXTGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("max_file_size", config.DefaultMaxFileSize)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("chunk_size", config.DefaultChunkSize)

	_ = viper.ReadInConfig()
}

// initLogging wires the file logger from the loaded configuration.
// Logging failures never abort a scan; loggers stay silent instead.
func initLogging(cfg *config.Config) {
	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		printVerbose("logging disabled: %v", err)
	}
}

// parseRotationConfig converts the config representation into the
// logging package's rotation settings.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.DefaultRotationConfig()

	if rc.MaxSize != "" {
		if n, err := parseRotationSize(rc.MaxSize); err == nil {
			out.MaxSize = n
		}
	}
	if rc.MaxAge > 0 {
		out.MaxAge = rc.MaxAge
	}
	if rc.MaxBackups > 0 {
		out.MaxBackups = rc.MaxBackups
	}
	out.Daily = rc.Daily

	return out
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		_ = logging.Close()
	}()
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
