package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
)

var transformCmd = &cobra.Command{
	Use:   "transform --name NAME [--out FILE] INPUT",
	Short: "Run a single pixel transform, including the cartoon intermediates",
	Long: `Run a single pixel transform on an image file.

Besides the three enhancements (grayscale, saturate, cartoon) this exposes
the two steps the cartoon effect is built from: edges (the outline layer)
and quantize (the reduced palette). Transforms never call a remote service.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringP("name", "n", "", "Transform: "+strings.Join(pixels.Names(), ", "))
	transformCmd.Flags().StringP("out", "o", "", "Output file (default: INPUT-NAME.png next to the input)")
	transformCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	outPath, _ := cmd.Flags().GetString("out")

	fn, ok := pixels.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown transform %q (want one of %s)", name, strings.Join(pixels.Names(), ", "))
	}

	inputPath := args[0]
	if _, err := imaging.ValidateUpload(inputPath, cfg.UploadLimit()); err != nil {
		return err
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()

	buf, _, err := imaging.Decode(f)
	if err != nil {
		return err
	}
	out := fn(buf)

	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outPath = filepath.Join(filepath.Dir(inputPath), base+"-"+name+".png")
	}

	var enc imgio.Encoder = imgio.PNGEncoder()
	if format, ok := imaging.FormatFromPath(outPath); ok && format == string(imaging.FormatJPEG) {
		enc = imgio.JPEGEncoder(imaging.DefaultJPEGQuality)
	}
	if err := imgio.Save(outPath, imaging.ToImage(out), enc); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d)\n", outPath, out.Width, out.Height)
	return nil
}
