// Package config holds the bound configuration for the vromfsunpack CLI.
package config

// Config holds app configuration, populated by viper from flags,
// environment variables and a config file, in that order of precedence.
type Config struct {
	// InputFile is the .vromfs.bin container to unpack (positional arg).
	InputFile string `mapstructure:"input"`

	OutputDir     string `mapstructure:"output"`
	MetadataFile  string `mapstructure:"metadata"`
	InputFilelist string `mapstructure:"input_filelist"`

	DryRun        bool `mapstructure:"dry_run"`
	Silent        bool `mapstructure:"silent"`
	NoMemoryCheck bool `mapstructure:"no_memory_check"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
