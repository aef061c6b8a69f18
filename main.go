package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/mintypak/internal/archive"
	"github.com/ossyrian/mintypak/internal/config"
	"github.com/ossyrian/mintypak/internal/logging"
	"github.com/ossyrian/mintypak/internal/pak"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mintypak",
	Short: "List and extract entries from legacy PAK game archives",
	RunE:  run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// i/o
	rootCmd.Flags().StringP("input", "i", "", "path to .pak archive to read (required)")
	rootCmd.Flags().StringP("extract", "x", "", "virtual path of a single entry to extract")
	rootCmd.Flags().StringP("output", "o", "-", "file to write extracted content to (\"-\" for stdout)")
	rootCmd.MarkFlagRequired("input")

	// archive settings
	rootCmd.Flags().String("game-region", "kr", "game region the archive ships with (kr, jp, cn, tw)")

	// other opts
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.Flags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stdout and file)")
	rootCmd.Flags().Bool("dry-run", false, "load and validate the archive without listing or extracting")

	viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("extract", rootCmd.Flags().Lookup("extract"))
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("game_region", rootCmd.Flags().Lookup("game-region"))
	viper.BindPFlag("log_level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.Flags().Lookup("log-output-dir"))
	viper.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mintypak"))
		}
		viper.AddConfigPath("/etc/mintypak/mintypak")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("MINTYPAK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// run loads the archive, then lists its tree or extracts one entry
func run(cmd *cobra.Command, args []string) error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogOutputDir); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	enc, err := pak.EncodingForRegion(cfg.GameRegion)
	if err != nil {
		return err
	}

	slog.Info("loading archive", "input", cfg.InputFile)

	file, err := os.Open(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	session := archive.New(file,
		archive.WithEncoding(enc),
		archive.WithLogger(slog.With("file", cfg.InputFile)),
	)
	if err := session.Load(); err != nil {
		slog.Error(fmt.Sprintf("error loading %s", cfg.InputFile), "error", err)
		return nil
	}

	if cfg.DryRun {
		return nil
	}

	if cfg.ExtractPath != "" {
		return extract(session, cfg.ExtractPath, cfg.OutputFile)
	}

	root, err := session.ListRoot()
	if err != nil {
		return err
	}
	printTree(root, 0)

	return nil
}

// printTree writes an indented listing of the virtual tree to stdout
func printTree(entries []*archive.Entry, depth int) {
	for _, e := range entries {
		for range depth {
			fmt.Print("  ")
		}
		if e.IsDirectory() {
			fmt.Printf("%s/\n", e.Name)
			printTree(e.Children, depth+1)
		} else {
			fmt.Printf("%s (%d bytes)\n", e.Name, e.Record.OriginalSize)
		}
	}
}

// extract writes a single entry's content to the output file, or to
// stdout when the output is "-"
func extract(session *archive.Session, path, output string) error {
	r, size, compressed, err := session.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", path, err)
	}

	slog.Info("extracting entry",
		"path", path,
		"size", size,
		"compressed", compressed,
	)

	var out io.Writer = os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
