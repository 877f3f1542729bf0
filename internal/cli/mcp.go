package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/photoscan/internal/logger"
	"github.com/ironsheep/photoscan/internal/server"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the photo tools over MCP (JSON-RPC on stdin/stdout)",
		Long: `Serve the photo tools over the Model Context Protocol.

Requests are read from stdin and responses written to stdout, one JSON object
per line. Logs go to stderr. Configure the binary in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Debug("photoscan MCP server %s (built %s, commit %s)",
				a.info.Version, a.info.BuildTime, a.info.GitCommit)

			p := newPipeline(a.cfg)
			defer p.Extractor().Close()

			return server.New(p, a.info.Version).Run(cmd.Context())
		},
	}
}
