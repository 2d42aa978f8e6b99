package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhalloway/textgrab/pkg/textgrab/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage textgrab configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/textgrab/config.yaml (if set)
  2. ~/.config/textgrab/config.yaml

Environment variables can override config file settings using the TEXTGRAB_ prefix:
  TEXTGRAB_MAX_FILE_SIZE=64KiB
  TEXTGRAB_WORKERS=8
  TEXTGRAB_OUTPUT_FORMAT=json`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cfg)

	fmt.Printf("max_file_size:     %s\n", cfg.MaxFileSize)
	fmt.Println("size_limits:")
	for _, ext := range []string{".log", ".txt", ".md", ".json"} {
		if s, ok := cfg.SizeLimits[ext]; ok {
			fmt.Printf("  %-8s         %s\n", ext+":", s)
		}
	}
	fmt.Printf("show_hidden_files: %v\n", cfg.ShowHiddenFiles)
	fmt.Printf("show_hidden_dirs:  %v\n", cfg.ShowHiddenDirs)
	fmt.Printf("workers:           %d\n", cfg.Workers)
	fmt.Printf("chunk_size:        %d\n", cfg.ChunkSize)
	fmt.Printf("excluded:          %d extensions, %d directories, %d files\n",
		len(cfg.ExcludedExtensions), len(cfg.ExcludedDirectories), len(cfg.ExcludedFiles))
	fmt.Printf("text_extensions:   %d known\n", len(cfg.TextExtensions))
	fmt.Println("output:")
	fmt.Printf("  format:          %s\n", cfg.Output.Format)
	fmt.Printf("  compression:     %s (level %d)\n", cfg.Output.Compression, cfg.Output.CompressionLevel)
	fmt.Println("cache:")
	fmt.Printf("  persist:         %v\n", cfg.Cache.Persist)
	fmt.Printf("  path:            %s\n", cfg.CachePath())
	fmt.Printf("  size:            %d\n", cfg.Cache.Size)
	fmt.Println("logging:")
	fmt.Printf("  level:           %s\n", cfg.Logging.Level)

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Printf("\nConfig file: %s\n", used)
	} else {
		fmt.Println("\nConfig file: none (using defaults)")
	}

	return nil
}

// runConfigInit creates a default configuration file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Printf("Configuration file: %s\n", filepath.Join(dir, "config.yaml"))
	return nil
}

// runConfigPath prints the configuration file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(dir, "config.yaml"))
	return nil
}

// runConfigEdit opens the configuration file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.WriteDefault(); err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, "config.yaml")

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editCmd := exec.Command(editor, configPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
