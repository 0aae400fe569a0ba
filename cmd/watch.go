package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/msalah0e/relgraph/internal/watcher"
	"github.com/spf13/cobra"
)

func watchCmd(a *app) *cobra.Command {
	var (
		ff       filterFlags
		output   string
		format   string
		title    string
		poll     bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render a snapshot whenever the data file changes",
		Example: `  relgraph watch -d network-data.json -o graph.html
  relgraph watch -o graph.svg --year 1920 --poll`,
		RunE: func(cmd *cobra.Command, args []string) error {
			location := a.location()
			if source.IsRemote(location) {
				return fmt.Errorf("watch needs a local file, got %s", location)
			}
			f, err := a.outputFormat(format, output)
			if err != nil {
				return err
			}
			if output == "" {
				output = "relgraph." + string(f)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rebuild := func() error {
				v := a.newView()
				res := a.load(ctx)
				if !res.Loaded() {
					noData(res)
				}
				v.Load(res)
				if _, err := ff.apply(v); err != nil {
					return err
				}
				if err := a.save(v, output, f, title); err != nil {
					return err
				}
				fmt.Printf("  %s %s %s\n", ui.StatusIcon(res.Loaded()), ui.Brand.Sprint(output),
					ui.Subtle.Sprintf("%s · %d nodes", time.Now().Format("15:04:05"), len(v.Visible().Nodes)))
				return nil
			}

			ui.Banner("watching " + location)
			if err := rebuild(); err != nil {
				return err
			}

			w, err := watcher.New(location,
				watcher.WithDebounceDuration(debounce),
				watcher.WithForcePoll(poll),
				watcher.WithLogger(a.log),
				watcher.WithOnError(func(err error) {
					if errors.Is(err, watcher.ErrFileRemoved) {
						fmt.Printf("  %s %s\n", ui.WarnIcon(), ui.Warn.Sprintf("%s was removed", location))
						return
					}
					a.log.Warn("watch: error", "path", location, "error", err)
				}),
			)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()
			if w.IsPolling() {
				fmt.Printf("  %s\n", ui.Subtle.Sprint("Polling for changes"))
			}

			return watchLoop(ctx, w.Changed(), rebuild)
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default relgraph.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg, png, dot, json or html")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)
	cmd.Flags().StringVar(&title, "title", "", "Caption drawn on the snapshot")
	cmd.Flags().BoolVar(&poll, "poll", false, "Poll instead of using filesystem notifications")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounceDuration, "Quiet period before re-rendering")
	return cmd
}

// watchLoop calls rebuild for every change until ctx is done. Rebuild
// errors are reported and watching continues.
func watchLoop(ctx context.Context, changed <-chan struct{}, rebuild func() error) error {
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-changed:
			if err := rebuild(); err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
			}
		}
	}
}
