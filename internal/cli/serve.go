package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/photoscan/internal/config"
	"github.com/ironsheep/photoscan/internal/logger"
	"github.com/ironsheep/photoscan/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the photo upload web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline(a.cfg)
			defer func() {
				if err := p.Extractor().Close(); err != nil {
					logger.Warn("failed to close OCR engine: %v", err)
				}
			}()

			h := web.New(p, a.cfg.HTTP.MaxUploadBytes)
			return web.Serve(cmd.Context(), a.cfg.HTTP, h.Routes())
		},
	}

	defaults := config.New()
	cmd.Flags().String("addr", defaults.HTTP.Addr, "Listen address")
	cmd.Flags().Int64("max-upload-bytes", defaults.HTTP.MaxUploadBytes, "Largest accepted upload")
	a.v.BindPFlag("http.addr", cmd.Flags().Lookup("addr"))
	a.v.BindPFlag("http.max_upload_bytes", cmd.Flags().Lookup("max-upload-bytes"))

	return cmd
}
