package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/draw"
	"github.com/raykavin/chartwise/pkg/render"
	"github.com/raykavin/chartwise/pkg/report"
	"github.com/raykavin/chartwise/pkg/upload"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// output is the machine-readable form of an upload result
type output struct {
	DataInfo core.DataInfo  `json:"data_info" yaml:"data_info"`
	Charts   []render.Chart `json:"charts" yaml:"charts"`
}

func buildUploadCmd() *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a CSV or Excel file and show the suggested charts",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}

	uploadCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json or yaml)")
	uploadCmd.Flags().StringVarP(&imageDir, "image-dir", "o", "", "Directory to write one image per chart")
	uploadCmd.Flags().StringVar(&imageFormat, "image-format", "png", "Image format (png or svg)")

	return uploadCmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	format, err := parseImageFormat(imageFormat)
	if err != nil {
		return err
	}

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	bar := progressbar.DefaultBytes(info.Size(), "uploading")
	controller := upload.NewController(upload.NewClient(cfg.API.URL, log), log)

	state := controller.Submit(cmd.Context(), upload.File{
		Name: filepath.Base(path),
		Body: io.TeeReader(file, bar),
	})
	_ = bar.Finish()

	if state.Phase != upload.PhaseSuccess {
		return errors.New(state.Message)
	}

	if imageDir != "" {
		if err := writeImages(imageDir, state.Result.ChartSuggestions, format); err != nil {
			return err
		}
	}

	return writeResult(cmd.OutOrStdout(), state.Result, outputFormat)
}

func writeResult(out io.Writer, result *core.UploadResult, format string) error {
	body := output{
		DataInfo: result.DataInfo,
		Charts:   render.RenderAll(result.ChartSuggestions),
	}

	switch format {
	case "text":
		report.New(out).Result(result)
		return nil
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(body)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(body)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeImages draws every chart into dir, named by position and title
func writeImages(dir string, suggestions []core.ChartSuggestion, format draw.Format) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for i, c := range render.RenderAll(suggestions) {
		name := filepath.Join(dir, fmt.Sprintf("%02d-%s%s", i+1, slug(c.Describe().Title), format.Extension()))
		if err := writeImage(name, c, format); err != nil {
			return err
		}
		log.Infof("wrote %s", name)
	}

	return nil
}

func writeImage(name string, c render.Chart, format draw.Format) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer file.Close()

	if err := draw.Draw(file, c, format, draw.DefaultOptions); err != nil {
		return fmt.Errorf("failed to draw %s: %w", name, err)
	}
	return nil
}

func parseImageFormat(name string) (draw.Format, error) {
	switch strings.ToLower(name) {
	case "png":
		return draw.PNG, nil
	case "svg":
		return draw.SVG, nil
	default:
		return draw.PNG, fmt.Errorf("unknown image format %q", name)
	}
}

func slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "chart"
	}
	return s
}
