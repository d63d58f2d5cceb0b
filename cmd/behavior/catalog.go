package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-behavior/pkg/catalog"
)

type catalogOptions struct {
	path     string
	profiles bool
}

func (a *App) newCatalogCmd() *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and show an animation catalog",
		Long: `Load an animation catalog and print its lists.

Without --file the built-in catalog is shown. A file that fails to load is
an error here, while the engine itself would fall back to the built-in one.

Examples:
  behavior catalog
  behavior catalog -f animations.yaml --profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showCatalog(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "file", "f", "", "Catalog YAML file")
	cmd.Flags().BoolVar(&opts.profiles, "profiles", false, "Also show the per-state profiles")
	return cmd
}

func (a *App) showCatalog(opts *catalogOptions) error {
	c := catalog.Default()
	if opts.path != "" {
		loaded, err := catalog.LoadFile(opts.path)
		if err != nil {
			return err
		}
		c = loaded
	}

	fmt.Fprint(a.stdout, renderCatalog(c))
	if opts.profiles {
		fmt.Fprintln(a.stdout)
		fmt.Fprint(a.stdout, renderProfiles(c))
	}
	return nil
}
