// Package cli wires configuration, logging and the photo pipeline into the
// photoscan command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/photoscan/internal/config"
	"github.com/ironsheep/photoscan/internal/logger"
)

// BuildInfo is set by ldflags in the main package.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app carries state shared by every subcommand.
type app struct {
	info       BuildInfo
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

// Execute runs the command tree with a context that is cancelled on SIGINT
// or SIGTERM, and returns the process exit code.
func Execute(info BuildInfo) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := NewRootCommand(info).ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the photoscan command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{info: info, v: viper.New()}
	defaults := config.New()

	rootCmd := &cobra.Command{
		Use:   "photoscan",
		Short: "Extract GPS, text and a display image from photos",
		Long: `photoscan reads a photo (JPEG, PNG, HEIC, ...) and reports three independent results:
the GPS position embedded in its EXIF metadata, the Thai and English text visible in it,
and an upright re-encoding suitable for display. It runs as a web upload service,
as an MCP server over stdio, or once from the command line.`,
		Version:           info.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("photoscan {{.Version}}\n  Build time: %s\n  Git commit: %s\n",
		info.BuildTime, info.GitCommit))

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a config file (YAML, TOML or JSON)")
	flags.String("log-level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "Log format (text, json)")
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(
		newServeCommand(a),
		newMCPCommand(a),
		newInspectCommand(a),
		newGPSCommand(a),
		newCapabilitiesCommand(a),
	)

	return rootCmd
}

// load reads the configuration and applies the logging settings before any
// subcommand runs.
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.SetLevel(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Debug("configuration loaded (config file %q)", a.configFile)
	return nil
}
