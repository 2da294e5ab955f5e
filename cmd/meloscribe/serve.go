package main

import (
	"github.com/spf13/cobra"

	"github.com/meloscribe/meloscribe/engine"
	"github.com/meloscribe/meloscribe/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription HTTP API",
	Long: `Serve exposes the transcription pipeline over HTTP:
POST /v1/transcribe with a multipart WAV upload, GET /healthz for liveness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.DefaultConfig()
		cfg.Addr = serveAddr
		return server.New(cfg, engine.New(engine.DefaultConfig())).Run()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
