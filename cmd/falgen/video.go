package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/presenter"
)

type VideoConfig struct {
	Model      string
	Aspect     string
	Resolution string
	Duration   float64
	Seed       int64
	SeedSet    bool
	Output     string
	Open       bool
	ListModels bool
}

func NewVideoConfig() *VideoConfig {
	return &VideoConfig{
		Model:      fal.DefaultModel(fal.KindVideo),
		Aspect:     "16:9",
		Resolution: "720p",
	}
}

var videoCmd = &cobra.Command{
	Use:   "video [prompt]",
	Short: "Generate a video from a text prompt",
	Long: `Generate a video from a text prompt, no input image required.

Examples:
  falgen video "A drone shot over a coastal village at dawn"
  falgen video "Timelapse of a city at night" --model wan --resolution 1080p
  falgen video "A fox running through snow" --duration 8 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getVideoConfigFromFlags(cmd)

		if config.ListModels {
			printModels(fal.KindVideo)
			return
		}

		if len(args) == 0 {
			presenter.Error(errors.New("a prompt is required"), "Nothing to generate")
			os.Exit(1)
		}
		prompt := args[0]

		client, cfg, err := newClient()
		if err != nil {
			presenter.Error(err, "Failed to initialize")
			os.Exit(1)
		}

		endpoint, err := fal.Resolve(fal.KindVideo, config.Model)
		if err != nil {
			presenter.Error(err, "Invalid model")
			os.Exit(1)
		}

		req := &fal.Request{
			Kind:        fal.KindVideo,
			Model:       config.Model,
			Prompt:      prompt,
			AspectRatio: config.Aspect,
			Resolution:  config.Resolution,
			Duration:    config.Duration,
		}
		if config.SeedSet {
			seed := config.Seed
			req.Seed = &seed
		}

		presenter.Info(fmt.Sprintf("Generating video with %s...", config.Model))
		presenter.Info(fmt.Sprintf("Prompt: %s", prompt))
		presenter.Info(fmt.Sprintf("Aspect: %s, Resolution: %s", config.Aspect, config.Resolution))
		if config.Duration > 0 {
			presenter.Info(fmt.Sprintf("Duration: %gs", config.Duration))
		}
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
			dest = defaultArtifactPath(cfg.OutputDir, fal.KindVideo, output)
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

		duration := config.Duration
		if duration == 0 {
			duration = 5.0
		}
		if est := fal.EstimateVideo(endpoint, duration); est != nil {
			presenter.Info(fmt.Sprintf("Estimated cost: %s", est))
		}

		if config.Open {
			openArtifact(ctx, path)
		}
	},
}

func init() {
	defaults := NewVideoConfig()
	videoCmd.Flags().StringP("model", "m", defaults.Model, "Model to use")
	videoCmd.Flags().StringP("aspect", "a", defaults.Aspect, "Aspect ratio (16:9, 9:16, 1:1, 4:3, 3:4)")
	videoCmd.Flags().StringP("resolution", "r", defaults.Resolution, "Video resolution (480p, 720p, 1080p)")
	videoCmd.Flags().Float64P("duration", "d", 0, "Video duration in seconds (model-dependent, typically 5-10s)")
	videoCmd.Flags().Int64P("seed", "s", 0, "Random seed for reproducibility")
	videoCmd.Flags().StringP("output", "o", "", "Output file path (default: auto-generated in the current directory)")
	videoCmd.Flags().Bool("open", false, "Open the generated video with the default player")
	videoCmd.Flags().Bool("list-models", false, "List available text-to-video models and exit")
}

func getVideoConfigFromFlags(cmd *cobra.Command) *VideoConfig {
	config := NewVideoConfig()

	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if aspect, err := cmd.Flags().GetString("aspect"); err == nil {
		config.Aspect = aspect
	}
	if resolution, err := cmd.Flags().GetString("resolution"); err == nil {
		config.Resolution = resolution
	}
	if duration, err := cmd.Flags().GetFloat64("duration"); err == nil {
		config.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		if seed, err := cmd.Flags().GetInt64("seed"); err == nil {
			config.Seed = seed
			config.SeedSet = true
		}
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
