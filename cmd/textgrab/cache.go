package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhalloway/textgrab/pkg/textgrab/config"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the text-verdict cache",
	Long: `Commands for managing the persistent text-verdict cache.

The cache stores text/binary verdicts for files whose extensions are not
in the known-text set, so repeat scans skip content sniffing. Verdicts
are stored in the XDG cache directory (typically ~/.cache/textgrab/verdicts).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached verdicts",
	Long:  `Removes all persisted text verdicts. The next scan will re-sniff unknown file types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath, err := verdictStorePath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cachePath); os.IsNotExist(err) {
			fmt.Println("Cache is already empty.")
			return nil
		}

		if err := os.RemoveAll(cachePath); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("Cache cleared.")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays information about the verdict cache including its location, size, and last modified time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath, err := verdictStorePath()
		if err != nil {
			return err
		}

		info, err := os.Stat(cachePath)
		if os.IsNotExist(err) {
			fmt.Println("Cache: empty (no verdict store)")
			fmt.Printf("Cache location: %s\n", cachePath)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to stat cache: %w", err)
		}

		var size int64
		var fileCount int
		err = filepath.Walk(cachePath, func(_ string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				size += info.Size()
				fileCount++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to calculate cache size: %w", err)
		}

		fmt.Printf("Cache location: %s\n", cachePath)
		fmt.Printf("Cache size: %s\n", types.FormatSize(size))
		fmt.Printf("Cache files: %d\n", fileCount)
		fmt.Printf("Last modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

		return nil
	},
}

// verdictStorePath resolves the verdict store location from the
// configuration, honoring a cache.path override.
func verdictStorePath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.CachePath(), nil
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}
