// Command vromfsunpack unpacks a .vromfs.bin container to a directory,
// optionally writing a JSON digest manifest alongside it.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heron-tools/vromfsunpack/internal/cli"
	"github.com/heron-tools/vromfsunpack/internal/config"
	"github.com/heron-tools/vromfsunpack/internal/extract"
	"github.com/heron-tools/vromfsunpack/pkg/vromfs"
)

var cfgFile string

// rootCmd represents the vromfsunpack command
var rootCmd = &cobra.Command{
	Use:   "vromfsunpack <file>",
	Short: "Unpack a .vromfs.bin container",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	rootCmd.Flags().StringP("output", "o", "", "output directory (default: input filename with _u appended)")
	rootCmd.Flags().String("metadata", "", "path to write a JSON digest manifest")
	rootCmd.Flags().String("input-filelist", "", "newline-delimited file restricting extraction to named entries")
	rootCmd.Flags().Bool("dry-run", false, "parse and decode without writing output")
	rootCmd.Flags().Bool("silent", false, "suppress log output below warn level")
	rootCmd.Flags().Bool("no-memory-check", false, "skip the preflight input-size sanity check")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-output-dir", "", "directory to also write a JSON log file to")

	for _, name := range []string{"output", "metadata", "input-filelist", "dry-run", "silent", "no-memory-check", "log-level", "log-output-dir"} {
		viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), rootCmd.Flags().Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintf(os.Stderr, "using config file: %s\n", viper.ConfigFileUsed())
		}
	}
	viper.SetEnvPrefix("VROMFSUNPACK")
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg.InputFile = args[0]
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.InputFile + "_u"
	}

	if err := cli.SetupLogging(cfg.LogLevel, cfg.LogOutputDir, cfg.Silent); err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	if !cfg.NoMemoryCheck {
		if err := preflightMemoryCheck(cfg.InputFile); err != nil {
			return err
		}
	}

	slog.Info("reading container", "path", cfg.InputFile)
	data, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	container, err := vromfs.Parse(data, vromfs.DefaultOptions())
	if err != nil {
		return fmt.Errorf("parse container: %w", err)
	}
	slog.Info("parsed container", "entries", len(container.Directory.Entries))

	only, err := loadFilelist(cfg.InputFilelist)
	if err != nil {
		return fmt.Errorf("load input filelist: %w", err)
	}

	manifest, err := extract.Extract(container, extract.Options{
		OutputDir: cfg.OutputDir,
		DryRun:    cfg.DryRun,
		Only:      only,
	}, vromfs.DefaultOptions())
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if !cfg.DryRun {
		slog.Info("extraction complete", "output", cfg.OutputDir, "files", len(manifest.Filelist))
	} else {
		slog.Info("dry run complete", "files", len(manifest.Filelist))
	}

	if cfg.MetadataFile != "" {
		if err := writeMetadata(cfg.MetadataFile, manifest); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
		slog.Info("wrote metadata", "path", cfg.MetadataFile)
	}

	return nil
}

// preflightMemoryCheck guards against loading an implausibly large file
// whole into memory, given §5's whole-container-residency requirement. It
// stats the input file and compares its size against runtime.MemStats's
// current usage relative to the process's soft memory limit (GOMEMLIMIT).
// With no limit configured, SetMemoryLimit(-1) reports math.MaxInt64 and
// there's no meaningful headroom figure to check against, so the check
// is a no-op in that (default) case.
func preflightMemoryCheck(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}

	limit := debug.SetMemoryLimit(-1)
	if limit == math.MaxInt64 {
		return nil
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	headroom := limit - int64(stats.Sys)

	// Extraction holds the raw body, the decompressed directory, and
	// decoded entry payloads at once; budget three times the input size.
	required := info.Size() * 3
	if headroom <= 0 || required > headroom {
		return fmt.Errorf("input file is %d bytes, requiring roughly %d bytes of headroom but only %d bytes available under GOMEMLIMIT; pass --no-memory-check to override", info.Size(), required, headroom)
	}
	return nil
}

func loadFilelist(path string) (map[string]struct{}, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	only := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		only[line] = struct{}{}
	}
	return only, scanner.Err()
}

func writeMetadata(path string, manifest extract.Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(manifest)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
