package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/presenter"
)

type SpeechConfig struct {
	Model          string
	Voice          string
	ReferenceAudio string
	Speed          float64
	Output         string
	Open           bool
	ListModels     bool
}

func NewSpeechConfig() *SpeechConfig {
	return &SpeechConfig{
		Model: fal.DefaultModel(fal.KindSpeech),
		Speed: 1.0,
	}
}

var speechCmd = &cobra.Command{
	Use:   "speech [text]",
	Short: "Convert text to speech",
	Long: `Synthesize speech from text.

Examples:
  falgen speech "Hello, world!"
  falgen speech "Welcome to our podcast" --model kokoro
  falgen speech "Clone my voice" --reference voice_sample.mp3

Voice cloning: pass --reference with a short sample recording. Works best
with the f5-tts model.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getSpeechConfigFromFlags(cmd)

		if config.ListModels {
			printModels(fal.KindSpeech)
			return
		}

		if len(args) == 0 {
			presenter.Error(errors.New("text is required"), "Nothing to synthesize")
			os.Exit(1)
		}
		text := args[0]

		if config.ReferenceAudio != "" {
			if _, err := os.Stat(config.ReferenceAudio); err != nil {
				presenter.Error(errors.Errorf("reference audio not found: %s", config.ReferenceAudio), "Invalid arguments")
				os.Exit(1)
			}
		}

		client, cfg, err := newClient()
		if err != nil {
			presenter.Error(err, "Failed to initialize")
			os.Exit(1)
		}

		endpoint, err := fal.Resolve(fal.KindSpeech, config.Model)
		if err != nil {
			presenter.Error(err, "Invalid model")
			os.Exit(1)
		}

		req := &fal.Request{
			Kind:           fal.KindSpeech,
			Model:          config.Model,
			Prompt:         text,
			Voice:          config.Voice,
			ReferenceAudio: config.ReferenceAudio,
			Speed:          config.Speed,
		}

		presenter.Info(fmt.Sprintf("Generating speech with %s...", config.Model))
		presenter.Info(fmt.Sprintf("Text: %s", previewText(text)))
		if config.ReferenceAudio != "" {
			presenter.Info(fmt.Sprintf("Reference audio: %s", config.ReferenceAudio))
		}
		if config.Speed != 1.0 {
			presenter.Info(fmt.Sprintf("Speed: %gx", config.Speed))
		}

		result, err := client.Generate(ctx, req)
		if err != nil {
			presenter.Error(err, "Failed to generate speech")
			os.Exit(1)
		}
		if result.Failed() {
			presenter.Error(errors.New(result.Reason), "Generation failed")
			os.Exit(1)
		}

		output := result.Outputs[0]
		dest := config.Output
		if dest == "" {
			dest = defaultArtifactPath(cfg.OutputDir, fal.KindSpeech, output)
		}
		dest = fal.UniquePath(dest)

		presenter.Info("Downloading audio...")
		path, err := client.Download(ctx, output.URL, dest)
		if err != nil {
			presenter.Error(err, "Failed to download audio")
			presenter.Info(fmt.Sprintf("Audio URL (download manually): %s", output.URL))
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Saved: %s", path))

		if est := fal.EstimateSpeech(endpoint, text); est != nil {
			presenter.Info(fmt.Sprintf("Estimated cost: %s", est))
		}

		if config.Open {
			openArtifact(ctx, path)
		}
	},
}

func previewText(text string) string {
	if len(text) <= 100 {
		return text
	}
	return text[:100] + "..."
}

func init() {
	defaults := NewSpeechConfig()
	speechCmd.Flags().StringP("model", "m", defaults.Model, "Model to use")
	speechCmd.Flags().StringP("reference", "r", "", "Reference audio file for voice cloning")
	speechCmd.Flags().StringP("voice", "v", "", "Voice ID (model-dependent)")
	speechCmd.Flags().Float64P("speed", "s", defaults.Speed, "Speech speed multiplier")
	speechCmd.Flags().StringP("output", "o", "", "Output file path (default: auto-generated in the current directory)")
	speechCmd.Flags().Bool("open", false, "Open the generated audio with the default player")
	speechCmd.Flags().Bool("list-models", false, "List available text-to-speech models and exit")
}

func getSpeechConfigFromFlags(cmd *cobra.Command) *SpeechConfig {
	config := NewSpeechConfig()

	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if reference, err := cmd.Flags().GetString("reference"); err == nil {
		config.ReferenceAudio = reference
	}
	if voice, err := cmd.Flags().GetString("voice"); err == nil {
		config.Voice = voice
	}
	if speed, err := cmd.Flags().GetFloat64("speed"); err == nil {
		config.Speed = speed
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
