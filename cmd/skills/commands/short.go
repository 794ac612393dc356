package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devexpertio/skills/pkg/skills/media"
)

func newShortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "short",
		Short: "Shorts pipeline: audio leveling and burned-in subtitles",
	}
	cmd.AddCommand(newShortBurnCmd())
	return cmd
}

func newShortBurnCmd() *cobra.Command {
	opts := media.DefaultPipelineOptions()
	var (
		noKaraoke  bool
		noAutoGain bool
	)
	cmd := &cobra.Command{
		Use:   "burn <video>",
		Short: "Transcribe a vertical video and burn word-level subtitles into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Karaoke = !noKaraoke
			opts.AutoGain = !noAutoGain
			result, err := media.Burn(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.BurnedPath)
			fmt.Fprintln(out, result.SRTPath)
			if result.ASSPath != "" {
				fmt.Fprintln(out, result.ASSPath)
			}
			fmt.Fprintln(out, result.CaptionPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Model, "model", "", "whisper model path (default $WHISPER_MODEL_PATH)")
	cmd.Flags().StringVar(&opts.Language, "language", opts.Language, "transcription language")
	cmd.Flags().IntVar(&opts.CRF, "crf", opts.CRF, "x264 quality for the burned output")
	cmd.Flags().IntVar(&opts.CaptionLen, "caption-len", opts.CaptionLen, "max caption length in characters")
	cmd.Flags().BoolVar(&noKaraoke, "no-karaoke", false, "plain subtitles instead of word-by-word highlight")
	cmd.Flags().BoolVar(&noAutoGain, "no-auto-gain", false, "skip audio loudness correction")
	cmd.Flags().BoolVar(&opts.TrimSilence, "trim-silence", false, "cut the leading silence from the burned copy")
	return cmd
}
