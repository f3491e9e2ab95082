package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/presenter"
)

type AnimateConfig struct {
	Model      string
	Prompt     string
	Duration   float64
	Aspect     string
	Output     string
	Open       bool
	ListModels bool
}

func NewAnimateConfig() *AnimateConfig {
	return &AnimateConfig{
		Model:    fal.DefaultModel(fal.KindAnimate),
		Duration: 5.0,
	}
}

var animateCmd = &cobra.Command{
	Use:   "animate [image]",
	Short: "Generate a video from a source image",
	Long: `Generate a video that animates a source image.

Examples:
  falgen animate photo.png
  falgen animate photo.png --prompt "camera slowly zooms in"
  falgen animate photo.png --model runway-gen3 --duration 10`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getAnimateConfigFromFlags(cmd)

		if config.ListModels {
			printModels(fal.KindAnimate)
			return
		}

		if len(args) == 0 {
			presenter.Error(errors.New("a source image is required"), "Nothing to animate")
			os.Exit(1)
		}
		imagePath := args[0]

		if _, err := os.Stat(imagePath); err != nil {
			presenter.Error(errors.Errorf("image not found: %s", imagePath), "Invalid arguments")
			os.Exit(1)
		}

		client, cfg, err := newClient()
		if err != nil {
			presenter.Error(err, "Failed to initialize")
			os.Exit(1)
		}

		endpoint, err := fal.Resolve(fal.KindAnimate, config.Model)
		if err != nil {
			presenter.Error(err, "Invalid model")
			os.Exit(1)
		}

		req := &fal.Request{
			Kind:        fal.KindAnimate,
			Model:       config.Model,
			Prompt:      config.Prompt,
			ImagePath:   imagePath,
			Duration:    config.Duration,
			AspectRatio: config.Aspect,
		}

		presenter.Info(fmt.Sprintf("Generating video with %s...", config.Model))
		presenter.Info(fmt.Sprintf("Source image: %s", imagePath))
		if config.Prompt != "" {
			presenter.Info(fmt.Sprintf("Prompt: %s", config.Prompt))
		}
		presenter.Info(fmt.Sprintf("Duration: %gs", config.Duration))
		presenter.Info("This may take several minutes...")

		result, err := client.Generate(ctx, req)
		if err != nil {
			presenter.Error(err, "Failed to generate video")
			os.Exit(1)
		}
		if result.Failed() {
			presenter.Error(errors.New(result.Reason), "Generation failed")
			os.Exit(1)
		}

		output := result.Outputs[0]
		dest := config.Output
		if dest == "" {
			dest = defaultArtifactPath(cfg.OutputDir, fal.KindAnimate, output)
		}
		dest = fal.UniquePath(dest)

		presenter.Info("Downloading video...")
		path, err := client.Download(ctx, output.URL, dest)
		if err != nil {
			presenter.Error(err, "Failed to download video")
			presenter.Info(fmt.Sprintf("Video URL (download manually): %s", output.URL))
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Saved: %s", path))

		if est := fal.EstimateVideo(endpoint, config.Duration); est != nil {
			presenter.Info(fmt.Sprintf("Estimated cost: %s", est))
		}

		if config.Open {
			openArtifact(ctx, path)
		}
	},
}

// defaultArtifactPath synthesizes the destination for a single-output job
// when the user gave no explicit --output.
func defaultArtifactPath(outputDir string, kind fal.Kind, output fal.Output) string {
	name := fal.DefaultFilename(kind, output, 0, 1, time.Now())
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}

func init() {
	defaults := NewAnimateConfig()
	animateCmd.Flags().StringP("model", "m", defaults.Model, "Model to use")
	animateCmd.Flags().StringP("prompt", "p", "", "Motion/action description (optional)")
	animateCmd.Flags().Float64P("duration", "d", defaults.Duration, "Video duration in seconds (model-dependent)")
	animateCmd.Flags().StringP("aspect", "a", "", "Override aspect ratio (usually auto-detected from the image)")
	animateCmd.Flags().StringP("output", "o", "", "Output file path (default: auto-generated in the current directory)")
	animateCmd.Flags().Bool("open", false, "Open the generated video with the default player")
	animateCmd.Flags().Bool("list-models", false, "List available image-to-video models and exit")
}

func getAnimateConfigFromFlags(cmd *cobra.Command) *AnimateConfig {
	config := NewAnimateConfig()

	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if prompt, err := cmd.Flags().GetString("prompt"); err == nil {
		config.Prompt = prompt
	}
	if duration, err := cmd.Flags().GetFloat64("duration"); err == nil {
		config.Duration = duration
	}
	if aspect, err := cmd.Flags().GetString("aspect"); err == nil {
		config.Aspect = aspect
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	if open, err := cmd.Flags().GetBool("open"); err == nil {
		config.Open = open
	}
	if listModels, err := cmd.Flags().GetBool("list-models"); err == nil {
		config.ListModels = listModels
	}

	return config
}
