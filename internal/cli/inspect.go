package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photoscan/internal/gps"
)

type inspectResult struct {
	Path   string      `json:"path"`
	Err    string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

func newInspectCommand(a *app) *cobra.Command {
	var noImage bool

	cmd := &cobra.Command{
		Use:   "inspect <photo>...",
		Short: "Run the full pipeline on photos and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPipeline(a.cfg)
			defer p.Extractor().Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			var failed int
			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}

				out := inspectResult{Path: path}
				res, err := p.ProcessFile(cmd.Context(), path)
				if err != nil {
					out.Err = err.Error()
					failed++
				} else {
					if noImage {
						res.ImageBase64 = ""
					}
					out.Result = res
				}
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d photos could not be read", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noImage, "no-image", false, "Omit the base64 display image from the output")
	return cmd
}

func newGPSCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gps <photo>...",
		Short: "Print the GPS position of each photo",
		Long: `Print the GPS position embedded in each photo's EXIF metadata, one line per
photo: the path, a tab, then "latitude, longitude" in decimal degrees or "absent".
Pixels are never decoded, so this works for any file with a readable EXIF block.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			var failed int
			for _, path := range args {
				c, err := gps.ExtractFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(w, "%s\t%s\n", path, c)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d photos could not be read", failed, len(args))
			}
			return nil
		},
	}
}
