package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/watcher"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/ui"
)

func (a *app) watchCmd() *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Distribute drop-zone images as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options(&f)
			if err != nil {
				return err
			}

			dir := a.cfg.DropZonePath()
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create drop zone: %w", err)
			}

			pl := a.container.Pipeline()
			w := watcher.New(dir, a.cfg.WatchDebounce(), func(ctx context.Context) error {
				s, err := pl.Distribute(ctx, opts)
				if err != nil {
					return err
				}
				return a.printSummary(cmd, s)
			})

			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatInfo("Watching "+dir))
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatMuted("Press Ctrl+C to stop"))
			return w.Run(cmd.Context())
		},
	}
	f.bind(cmd, true)
	return cmd
}
