package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-behavior/internal/config"
	"github.com/teslashibe/go-behavior/internal/httpc"
	"github.com/teslashibe/go-behavior/pkg/behavior"
	"github.com/teslashibe/go-behavior/pkg/web"
)

func (a *App) newCtlParamsCmd(control func() *httpc.Control) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "params [file.yaml]",
		Short: "Show the live parameters, or apply a partial update from a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case defaults && len(args) == 1:
				return errors.New("--defaults and a params file are mutually exclusive")
			case defaults:
				return control().UpdateParams(cmd.Context(), behavior.FullUpdate(behavior.DefaultParams()))
			case len(args) == 1:
				u, err := config.LoadParams(args[0])
				if err != nil {
					return err
				}
				return control().UpdateParams(cmd.Context(), u)
			}
			p, err := control().Params(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Reset every numeric parameter to its default")
	return cmd
}

func (a *App) newCtlCmd() *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "ctl",
		Short: "Inspect and steer a running engine",
	}
	cmd.PersistentFlags().StringVar(&api, "api", "http://localhost:8090", "Engine base URL")
	control := func() *httpc.Control { return httpc.NewControl(api, nil) }

	cmd.AddCommand(
		&cobra.Command{
			Use:   "state [name]",
			Short: "Show the engine state, or force it to name",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return control().SetState(cmd.Context(), args[0])
				}
				snap, err := control().Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(a.stdout, renderSnapshot(snap))
				return nil
			},
		},
		a.newCtlParamsCmd(control),
		&cobra.Command{
			Use:   "reload",
			Short: "Reload the animation catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return control().ReloadCatalog(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "event chat | speech start|stop | say <text>",
			Short: "Inject a control event",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req web.EventRequest
				switch args[0] {
				case "speech":
					if len(args) == 2 {
						req.Phase = args[1]
					}
				case "say":
					if len(args) == 2 {
						req.Text = args[1]
					}
				}
				return control().Event(cmd.Context(), args[0], req)
			},
		},
	)
	return cmd
}
