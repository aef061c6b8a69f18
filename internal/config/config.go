package config

// Config holds app configuration
type Config struct {
	// GameRegion selects the legacy code page used for entry names
	// (kr, jp, cn, tw)
	GameRegion string `mapstructure:"game_region"`

	InputFile string `mapstructure:"input"`

	// ExtractPath is the virtual path of a single entry to extract
	// If empty, the tool only lists the archive tree
	ExtractPath string `mapstructure:"extract"`

	// OutputFile is where extracted content is written ("-" for stdout)
	OutputFile string `mapstructure:"output"`

	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
