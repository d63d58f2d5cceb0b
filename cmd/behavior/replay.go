package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-behavior/internal/log"
	"github.com/teslashibe/go-behavior/pkg/replay"
)

type replayOptions struct {
	url   string
	speed float64
}

func (a *App) newReplayCmd() *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay [file.jsonl ...]",
		Short: "Stream recorded perception sessions into a running engine",
		Long: `Send recorded messages, one JSON object per line, to a running engine's
perception stream. "-" or no file reads standard input.

Examples:
  behavior replay session.jsonl
  behavior replay --speed 1 --url ws://robot:8090/ws/perception session.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			c, err := replay.Dial(cmd.Context(), opts.url, log.Component("replay"))
			if err != nil {
				return err
			}
			defer c.Close()
			c.Speed = opts.speed

			for _, name := range args {
				if err := a.replayFile(cmd, c, name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "ws://localhost:8090/ws/perception", "Perception stream URL")
	cmd.Flags().Float64Var(&opts.speed, "speed", 0, "Playback speed relative to the recording (0 = no pacing)")
	return cmd
}

func (a *App) replayFile(cmd *cobra.Command, c *replay.Client, name string) error {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	stats, err := c.Replay(cmd.Context(), r)
	fmt.Fprintf(a.stdout, "%s: sent %d, skipped %d, rejected %d in %s\n",
		name, stats.Sent, stats.Skipped, stats.Rejected, stats.Duration.Round(time.Millisecond))
	return err
}
