package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/ocr"
)

type capabilitiesReport struct {
	Version    string               `json:"version"`
	Compiled   imaging.Capabilities `json:"compiled"`
	Enabled    imaging.Capabilities `json:"enabled"`
	Strategies []string             `json:"strategies"`
	OCR        ocr.Info             `json:"ocr"`
}

func newCapabilitiesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Print the compiled-in and enabled codecs and the OCR engine status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline(a.cfg)
			defer p.Extractor().Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(capabilitiesReport{
				Version:    a.info.Version,
				Compiled:   imaging.Compiled(),
				Enabled:    p.Loader().Capabilities(),
				Strategies: p.Loader().Strategies(),
				OCR:        p.Extractor().Info(),
			})
		},
	}
}
