package main

import (
	"github.com/spf13/cobra"

	"github.com/meloscribe/meloscribe/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "meloscribe",
	Short: "Monophonic melody transcription",
	Long: `meloscribe converts a solo melody recording into a quantized musical
score: MIDI, MusicXML and a plain-text note listing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.GetGlobalLogger().SetLevel(logging.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
