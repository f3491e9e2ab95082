package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nunomen/falgen/pkg/fal"
	"github.com/nunomen/falgen/pkg/presenter"
)

var kindTitles = map[fal.Kind]string{
	fal.KindImage:   "Image generation models",
	fal.KindAnimate: "Image-to-video models",
	fal.KindVideo:   "Text-to-video models",
	fal.KindSpeech:  "Text-to-speech models",
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long: `List the models available per task kind, with their fal.ai endpoint IDs
and per-unit pricing where known.

Examples:
  falgen models
  falgen models --kind video`,
	Run: func(cmd *cobra.Command, _ []string) {
		kindFlag, _ := cmd.Flags().GetString("kind")

		kinds := fal.Kinds
		if kindFlag != "" {
			kind := fal.Kind(kindFlag)
			if kindTitles[kind] == "" {
				presenter.Error(errors.Errorf("unknown kind %q (choose from image, animate, video, speech)", kindFlag), "Invalid arguments")
				os.Exit(1)
			}
			kinds = []fal.Kind{kind}
		}

		for i, kind := range kinds {
			if i > 0 {
				presenter.Info("")
			}
			printModels(kind)
		}
	},
}

// printModels renders the catalog for one task kind, marking the default
// model and attaching a cost estimate where pricing is known.
func printModels(kind fal.Kind) {
	presenter.Section(kindTitles[kind])
	for _, info := range fal.Models(kind) {
		marker := " "
		if info.Default {
			marker = "*"
		}
		presenter.Info(fmt.Sprintf("%s %-15s -> %s", marker, info.Name, info.Endpoint))
		if price := priceLine(kind, info.Endpoint); price != "" {
			presenter.Info(fmt.Sprintf("                    %s", price))
		}
	}
	presenter.Info("")
	presenter.Info("Use --model <shortname> or --model <full-endpoint-id> (* = default)")
}

func priceLine(kind fal.Kind, endpoint string) string {
	switch kind {
	case fal.KindImage:
		if est := fal.EstimateImage(endpoint, 1, 1024, 1024); est != nil {
			return fmt.Sprintf("~$%.3f/image", est.Cost)
		}
	case fal.KindAnimate, fal.KindVideo:
		if est := fal.EstimateVideo(endpoint, 5.0); est != nil {
			return fmt.Sprintf("~$%.2f/5s", est.Cost)
		}
	case fal.KindSpeech:
		if est := fal.EstimateSpeech(endpoint, strings.Repeat("a", 1000)); est != nil {
			return fmt.Sprintf("~$%.3f/1k chars", est.Cost)
		}
	}
	return ""
}

func init() {
	modelsCmd.Flags().StringP("kind", "k", "", "Task kind to list (image, animate, video, speech)")
}
