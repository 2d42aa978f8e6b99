package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhalloway/textgrab/pkg/textgrab/cache"
	"github.com/dhalloway/textgrab/pkg/textgrab/config"
	"github.com/dhalloway/textgrab/pkg/textgrab/logging"
	"github.com/dhalloway/textgrab/pkg/textgrab/output"
	"github.com/dhalloway/textgrab/pkg/textgrab/scanner"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cfg)

	initLogging(cfg)
	logger := logging.Get("cli").With("run_id", uuid.NewString())

	pol, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := scanner.Options{
		Root:      root,
		Policy:    pol,
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
		CacheSize: cfg.Cache.Size,
	}

	// The persistent verdict store is an optimization; a failure to open
	// it degrades to the in-memory cache.
	if cfg.Cache.Persist {
		store, err := cache.OpenStore(cfg.CachePath())
		if err != nil {
			logger.Warn("verdict store unavailable", "path", cfg.CachePath(), "error", err)
			printVerbose("verdict store unavailable: %v", err)
		} else {
			opts.VerdictStore = store
		}
	}

	eng, err := scanner.New(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			logger.Warn("closing verdict store", "error", closeErr)
		}
	}()

	showProgress := !getQuiet() && isatty.IsTerminal(os.Stderr.Fd())
	if showProgress {
		eng.SetProgressCallback(newProgressPrinter())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			printInfo("\nInterrupted, stopping scan...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("scan starting", "root", root, "workers", cfg.Workers)

	result, err := eng.Scan(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled; partial results discarded")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}

	logger.Info("scan complete",
		"scanned", result.Stats.FilesScanned,
		"skipped", result.Stats.FilesSkipped,
		"elapsed", result.Elapsed)

	if outPath := viper.GetString("output_path"); outPath != "" {
		return writeReport(cfg, result, outPath)
	}
	return printReport(cfg, result)
}

// printReport renders the result to stdout. When no format was chosen
// explicitly and stdout is a terminal, the pretty listing is used.
func printReport(cfg *config.Config, result *types.Result) error {
	format := cfg.Output.Format
	if viper.GetString("format") == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		format = "pretty"
	}

	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}

// writeReport persists the result to a file, compressed per the
// configuration.
func writeReport(cfg *config.Config, result *types.Result, path string) error {
	codec, err := output.ParseCompression(cfg.Output.Compression)
	if err != nil {
		return err
	}

	finalPath, err := output.NewWriter().Write(result, path, output.Options{
		Format:      cfg.Output.Format,
		Compression: codec,
		Level:       cfg.Output.CompressionLevel,
	})
	if err != nil {
		return err
	}

	printInfo("Report written to %s (%d files, %s)",
		finalPath,
		result.Stats.FilesScanned,
		types.FormatSize(result.TotalSize()))

	if codec == output.CompressionNone && result.RecommendCompression() {
		printVerbose("large report; consider --compression gzip")
	}
	return nil
}

// newProgressPrinter returns a progress callback that renders a single
// updating status line on stderr. Workers report concurrently, so the
// printer serializes with a mutex.
func newProgressPrinter() func(types.Progress) {
	var mu sync.Mutex
	return func(p types.Progress) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(os.Stderr, "\r\033[K[%d/%d] scanned %d, skipped %d: %s",
			p.Completed, p.Total, p.Processed, p.Skipped, truncateLabel(p.CurrentPath, 50))
	}
}

// truncateLabel shortens long paths from the left for the status line.
func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
