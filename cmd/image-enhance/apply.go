package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
)

var applyCmd = &cobra.Command{
	Use:   "apply --type TYPE [--out FILE] INPUT",
	Short: "Apply one enhancement to an image file",
	Example: `  image-enhance apply --type cartoon photo.jpg
  image-enhance apply --type blackwhite --out bw.jpg --format jpeg photo.png
  IMAGE_ENHANCE_AZURE__API_KEY=... image-enhance apply --type background photo.png`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("type", "t", "", "Enhancement: background, blackwhite, colorful or cartoon")
	applyCmd.Flags().StringP("out", "o", "", "Output file (default: the enhancement's suggested name next to the input)")
	applyCmd.Flags().String("format", "png", "Output format for local enhancements (png, jpeg)")
	applyCmd.Flags().String("api-key", "", "Azure Computer Vision API key (overrides config)")
	applyCmd.Flags().String("location", "", "Azure region (overrides config)")
	applyCmd.Flags().String("endpoint", "", "Azure Computer Vision endpoint (overrides config)")
	applyCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	typeName, _ := cmd.Flags().GetString("type")
	outPath, _ := cmd.Flags().GetString("out")
	formatName, _ := cmd.Flags().GetString("format")
	apiKey, _ := cmd.Flags().GetString("api-key")
	location, _ := cmd.Flags().GetString("location")
	endpoint, _ := cmd.Flags().GetString("endpoint")

	t, err := enhance.ParseType(typeName)
	if err != nil {
		return err
	}
	format, err := imaging.ParseFormat(formatName)
	if err != nil {
		return err
	}

	inputPath := args[0]
	upload, err := imaging.ValidateUpload(inputPath, cfg.UploadLimit())
	if err != nil {
		return err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), t.LoadingText())

	creds := enhance.Credentials{APIKey: apiKey, Location: location, Endpoint: endpoint}.Merge(cfg.Credentials())
	res, err := cfg.NewEnhancer().Enhance(cmd.Context(), enhance.Request{
		Type:        t,
		Image:       data,
		Credentials: creds,
		Format:      format,
	})
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(inputPath), res.FileName)
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if cfg.Debug() {
		log.Printf("%s: %s %dx%d -> %s in %s", t, upload.Format, upload.Width, upload.Height, outPath, res.Elapsed)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nWrote %s (%dx%d, %s)\n", res.Message, outPath, res.Width, res.Height, res.MimeType)
	return nil
}
