package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/presenter"
)

type ImageConfig struct {
	Model          string
	Aspect         string
	Num            int
	Seed           int64
	SeedSet        bool
	NegativePrompt string
	OutputDir      string
	NoSafety       bool
	Open           bool
	ListModels     bool
}

func NewImageConfig() *ImageConfig {
	return &ImageConfig{
		Model:     fal.DefaultModel(fal.KindImage),
		Aspect:    "square",
		Num:       1,
		OutputDir: ".",
	}
}

var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Generate images from a text prompt",
	Long: `Generate one or more images from a text prompt.

Examples:
  falgen image "A serene mountain landscape at sunset"
  falgen image "A cyberpunk city" --model flux-pro --aspect landscape_16_9
  falgen image "A cute robot" --num 4 --output ./robots/`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getImageConfigFromFlags(cmd)

		if config.ListModels {
			printModels(fal.KindImage)
			return
		}

		if len(args) == 0 {
			presenter.Error(errors.New("a prompt is required"), "Nothing to generate")
			os.Exit(1)
		}
		prompt := args[0]

		if !fal.ValidAspectRatio(config.Aspect) {
			presenter.Error(errors.Errorf("invalid aspect ratio %q (choose from %v)", config.Aspect, fal.AspectRatios), "Invalid arguments")
			os.Exit(1)
		}

		client, cfg, err := newClient()
		if err != nil {
			presenter.Error(err, "Failed to initialize")
			os.Exit(1)
		}

		// Resolve the model before touching the network so typos fail fast.
		endpoint, err := fal.Resolve(fal.KindImage, config.Model)
		if err != nil {
			presenter.Error(err, "Invalid model")
			os.Exit(1)
		}

		req := &fal.Request{
			Kind:                 fal.KindImage,
			Model:                config.Model,
			Prompt:               prompt,
			AspectRatio:          config.Aspect,
			NumImages:            config.Num,
			NegativePrompt:       config.NegativePrompt,
			DisableSafetyChecker: config.NoSafety,
		}
		if config.SeedSet {
			seed := config.Seed
			req.Seed = &seed
		}

		presenter.Info(fmt.Sprintf("Generating %d image(s) with %s...", config.Num, config.Model))
		presenter.Info(fmt.Sprintf("Prompt: %s", prompt))

		result, err := client.Generate(ctx, req)
		if err != nil {
			presenter.Error(err, "Failed to generate images")
			os.Exit(1)
		}
		if result.Failed() {
			presenter.Error(errors.New(result.Reason), "Generation failed")
			os.Exit(1)
		}

		outputDir := config.OutputDir
		if outputDir == "." && cfg.OutputDir != "" {
			outputDir = cfg.OutputDir
		}

		now := time.Now()
		var saved []string
		var downloadErrs *multierror.Error
		for i, output := range result.Outputs {
			dest := fal.UniquePath(filepath.Join(outputDir, fal.DefaultFilename(fal.KindImage, output, i, len(result.Outputs), now)))
			presenter.Info(fmt.Sprintf("Downloading image %d...", i+1))
			path, err := client.Download(ctx, output.URL, dest)
			if err != nil {
				downloadErrs = multierror.Append(downloadErrs, err)
				continue
			}
			saved = append(saved, path)
			presenter.Info(fmt.Sprintf("  Saved: %s", path))
		}

		if err := downloadErrs.ErrorOrNil(); err != nil {
			presenter.Error(err, "Some downloads failed")
			if len(saved) == 0 {
				os.Exit(1)
			}
		}

		presenter.Separator()
		presenter.Success(fmt.Sprintf("Generated %d image(s) in %s", len(saved), outputDir))

		width, height := fal.ImageSize(config.Aspect)
		if est := fal.EstimateImage(endpoint, len(saved), width, height); est != nil {
			presenter.Info(fmt.Sprintf("Estimated cost: %s", est))
		}

		if config.Open {
			for _, path := range saved {
				openArtifact(ctx, path)
			}
		}
	},
}

func init() {
	defaults := NewImageConfig()
	imageCmd.Flags().StringP("model", "m", defaults.Model, "Model to use")
	imageCmd.Flags().StringP("aspect", "a", defaults.Aspect, "Aspect ratio (square, square_hd, portrait_4_3, portrait_16_9, landscape_4_3, landscape_16_9, 21_9, 9_21)")
	imageCmd.Flags().IntP("num", "n", defaults.Num, "Number of images to generate (1-4)")
	imageCmd.Flags().Int64P("seed", "s", 0, "Random seed for reproducibility")
	imageCmd.Flags().String("negative", "", "Negative prompt (things to avoid)")
	imageCmd.Flags().StringP("output", "o", defaults.OutputDir, "Output directory")
	imageCmd.Flags().Bool("no-safety", false, "Disable the safety checker")
	imageCmd.Flags().Bool("open", false, "Open generated images with the default viewer")
	imageCmd.Flags().Bool("list-models", false, "List available image models and exit")
}

func getImageConfigFromFlags(cmd *cobra.Command) *ImageConfig {
	config := NewImageConfig()

	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if aspect, err := cmd.Flags().GetString("aspect"); err == nil {
		config.Aspect = aspect
	}
	if num, err := cmd.Flags().GetInt("num"); err == nil {
		config.Num = num
	}
	if cmd.Flags().Changed("seed") {
		if seed, err := cmd.Flags().GetInt64("seed"); err == nil {
			config.Seed = seed
			config.SeedSet = true
		}
	}
	if negative, err := cmd.Flags().GetString("negative"); err == nil {
		config.NegativePrompt = negative
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.OutputDir = output
	}
	if noSafety, err := cmd.Flags().GetBool("no-safety"); err == nil {
		config.NoSafety = noSafety
	}
	if open, err := cmd.Flags().GetBool("open"); err == nil {
		config.Open = open
	}
	if listModels, err := cmd.Flags().GetBool("list-models"); err == nil {
		config.ListModels = listModels
	}

	return config
}
