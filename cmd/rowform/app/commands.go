package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rowform/rowform/cmd/rowform/cmd/catalog"
	"github.com/rowform/rowform/cmd/rowform/cmd/normalize"
	"github.com/rowform/rowform/cmd/rowform/cmd/reconcile"
	"github.com/rowform/rowform/cmd/rowform/cmd/serve"
	"github.com/rowform/rowform/cmd/rowform/cmd/template"
)

// CreateNormalizeCommand creates the normalize command with app dependencies.
func (a *App) CreateNormalizeCommand() *cobra.Command {
	return normalize.NewCommand(a)
}

// CreateReconcileCommand creates the reconcile command with app dependencies.
func (a *App) CreateReconcileCommand() *cobra.Command {
	return reconcile.NewCommand(a)
}

// CreateTemplateCommand creates the template command with app dependencies.
func (a *App) CreateTemplateCommand() *cobra.Command {
	return template.NewCommand(a)
}

// CreateCatalogCommand creates the catalog command with app dependencies.
func (a *App) CreateCatalogCommand() *cobra.Command {
	return catalog.NewCommand(a)
}

// CreateServeCommand creates the serve command with app dependencies.
func (a *App) CreateServeCommand() *cobra.Command {
	return serve.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the rowform CLI.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("rowform version %s\n", a.version)
			fmt.Printf("commit: %s\n", a.commit)
			fmt.Printf("built: %s\n", a.date)
			fmt.Printf("built by: %s\n", a.builtBy)
			fmt.Printf("go version: %s\n", runtime.Version())
			fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
