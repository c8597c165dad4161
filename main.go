package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"flowpaint/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// App carries flags shared by every command.
type App struct {
	ConfigPath string

	cfg *config.Config
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "flowpaint [file]",
		Short:        "Terminal diagram editor",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Edit a drawing (created on first save if missing)
  flowpaint chart.json

  # Render a drawing without opening the editor
  flowpaint export chart.json --png chart.png

  # Keep drawings in the library
  flowpaint library save onboarding chart.json
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, using defaults\n", err)
			}
			app.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(app.cfg, path)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("FLOWPAINT_CONFIG", config.DefaultPath()), "config file")

	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newInfoCmd(app))
	cmd.AddCommand(newLibraryCmd(app))
	return cmd
}
