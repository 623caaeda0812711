package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("starting tui")
	return app.Run(app.Options{
		Deps:     e.deps(),
		Sessions: e.auth,
	})
}
