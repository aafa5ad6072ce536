package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"

	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/vision"
	"github.com/spf13/cobra"
)

// ScreenshotResult is the YAML output of a screenshot written to a file or
// analysed with --detect.
type ScreenshotResult struct {
	OK       bool                  `yaml:"ok"                 json:"ok"`
	Action   string                `yaml:"action"             json:"action"`
	Path     string                `yaml:"path,omitempty"     json:"path,omitempty"`
	Width    int                   `yaml:"width"              json:"width"`
	Height   int                   `yaml:"height"             json:"height"`
	Elements []model.ScreenElement `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// shotOptions selects what takeScreenshot does besides capturing.
type shotOptions struct {
	Region   *platform.Bounds
	Detect   bool
	Annotate bool // implies Detect
	Archive  *vision.Archive
}

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot",
	Long: `Capture the screen or a region of it. With --detect the vision oracle lists
the visible elements; with --annotate they are also drawn on the image.

Examples:
  eva screenshot --output screen.png
  eva screenshot --region 0,0,800,600 --detect
  eva screenshot --annotate --output annotated.png`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().String("region", "", "Capture only x,y,width,height")
	screenshotCmd.Flags().Bool("detect", false, "Detect UI elements with the vision oracle")
	screenshotCmd.Flags().Bool("annotate", false, "Draw detected elements on the image (implies --detect)")
	screenshotCmd.Flags().Bool("archive", false, "Also save the screenshot in the screenshot archive")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	regionFlag, _ := cmd.Flags().GetString("region")
	detect, _ := cmd.Flags().GetBool("detect")
	annotate, _ := cmd.Flags().GetBool("annotate")
	archive, _ := cmd.Flags().GetBool("archive")

	opts := shotOptions{Detect: detect, Annotate: annotate}
	if regionFlag != "" {
		region, err := platform.ParseBBox(regionFlag)
		if err != nil {
			return err
		}
		opts.Region = region
	}
	if archive {
		opts.Archive = vision.NewArchive(cfg.Vision.ArchiveDir, cfg.Vision.Keep, logger)
	}

	provider, err := desktop()
	if err != nil {
		return err
	}

	data, result, err := takeScreenshot(cmd.Context(), provider, opts)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
		result.Path = outPath
		return output.Print(result)
	}
	if opts.Detect || opts.Annotate {
		return output.Print(result)
	}

	// Default: write to stdout as base64 for easy agent consumption
	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println() // newline after base64
	return nil
}

// takeScreenshot captures the screen and optionally detects and draws its
// elements. The returned PNG is the annotated image when opts.Annotate is set.
func takeScreenshot(ctx context.Context, provider *platform.Provider, opts shotOptions) ([]byte, ScreenshotResult, error) {
	if provider.Screenshotter == nil {
		return nil, ScreenshotResult{}, fmt.Errorf("screenshot not supported on this platform")
	}
	data, err := provider.Screenshotter.CaptureScreen(platform.ScreenshotOptions{Region: opts.Region})
	if err != nil {
		return nil, ScreenshotResult{}, err
	}
	result := ScreenshotResult{OK: true, Action: "screenshot"}
	if conf, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
		result.Width, result.Height = conf.Width, conf.Height
	}
	if opts.Archive != nil {
		path, err := opts.Archive.Save(data)
		if err != nil {
			return nil, result, err
		}
		result.Path = path
	}
	if !opts.Detect && !opts.Annotate {
		return data, result, nil
	}

	completer, err := buildOracle(cfg.VisionOracle())
	if err != nil {
		return nil, result, fmt.Errorf("vision oracle: %w", err)
	}
	detector := vision.NewDetector(completer, vision.DetectorOptions{
		MaxElements: cfg.Vision.MaxElements,
		MaxWidth:    cfg.Vision.MaxWidth,
		Logger:      logger,
	})
	elements, err := detector.Detect(ctx, data)
	if err != nil {
		return nil, result, err
	}
	result.Elements = elements
	if !opts.Annotate {
		return data, result, nil
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, result, fmt.Errorf("decode screenshot: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, vision.Annotate(img, elements, vision.LabelIDs)); err != nil {
		return nil, result, fmt.Errorf("encode annotated screenshot: %w", err)
	}
	return buf.Bytes(), result, nil
}
