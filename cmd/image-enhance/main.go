package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance-mcp/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "image-enhance",
	Short: "Remove backgrounds, convert to black & white, boost colours or cartoonize images",
	Long: `image-enhance applies one of four enhancements to an image:

  background   remove the background (Azure Computer Vision)
  blackwhite   grayscale
  colorful     boost saturation
  cartoon      outlines plus a reduced colour palette

Run "image-enhance serve" to expose the enhancements to an MCP client over
stdin/stdout, or "image-enhance apply" to process a single file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: $XDG_CONFIG_HOME/image-enhance/config.toml, then ./image-enhance.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if cfg.Level() == config.LogQuiet {
		log.SetOutput(io.Discard)
	}

	return cfg, nil
}
