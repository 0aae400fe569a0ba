package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/msalah0e/relgraph/internal/cache"
	"github.com/msalah0e/relgraph/internal/config"
	"github.com/msalah0e/relgraph/internal/render"
	"github.com/msalah0e/relgraph/internal/source"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/msalah0e/relgraph/internal/view"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	dataPath   string
	verbose    bool

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "relgraph",
		Short: "relgraph — social relationship star graphs",
		Long: ui.Brand.Sprint(ui.Web+" relgraph") + " — explore who a person knew, and when\n" +
			ui.Subtle.Sprint("Filter relationships by category and year, lay them out, and render snapshots"),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.SetVersionTemplate("relgraph {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/relgraph/config.toml)")
	root.PersistentFlags().StringVarP(&a.dataPath, "data", "d", "", "Data file or URL (overrides [data] source)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug details to stderr")

	root.AddCommand(
		statsCmd(a),
		filterCmd(a),
		layoutCmd(a),
		showCmd(a),
		exportCmd(a),
		convertCmd(a),
		watchCmd(a),
		framesCmd(a),
		configCmd(a),
		cacheCmd(a),
		completionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "relgraph: %v\n", err)
	}
	return err
}

func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)

	if a.configPath == "" {
		a.cfg = config.Load()
		return nil
	}
	cfg, err := config.LoadFile(a.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// config init creates it
		a.log.Debug("config: file not found, using defaults", "path", a.configPath)
	case err != nil:
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) location() string {
	if a.dataPath != "" {
		return a.dataPath
	}
	return a.cfg.Data.Source
}

func (a *app) loader() source.Loader {
	timeout := time.Duration(a.cfg.Data.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	l := source.Loader{
		Client:           &http.Client{Timeout: timeout},
		FallbackRelation: a.cfg.Data.FallbackRelation,
		Logger:           a.log,
	}
	if a.cfg.Data.CacheRemote {
		l.Cache = cache.Default()
	}
	return l
}

func (a *app) load(ctx context.Context) source.Result {
	return a.loader().Load(ctx, a.location())
}

func (a *app) newView() *view.GraphView {
	return view.New(view.Options{
		Network:   a.cfg.NetworkOptions(),
		Layout:    a.cfg.LayoutOptions(),
		Container: view.FixedSize{Width: a.cfg.Layout.Width, Height: a.cfg.Layout.Height},
		Logger:    a.log,
	})
}

// openView loads the configured data into a fresh view. An unavailable
// source is reported and leaves the view empty.
func (a *app) openView(ctx context.Context) *view.GraphView {
	v := a.newView()
	res := a.load(ctx)
	if !res.Loaded() {
		noData(res)
	}
	v.Load(res)
	return v
}

func (a *app) style() render.Style {
	s := render.DefaultStyle()
	if a.cfg.Render.Background != "" {
		s.Background = a.cfg.Render.Background
		s.NodeStroke = a.cfg.Render.Background
	}
	if a.cfg.Render.BrokenColor != "" {
		s.BrokenColor = a.cfg.Render.BrokenColor
	}
	s.Labels = a.cfg.Render.Labels
	return s
}

// noData goes to stderr so machine-readable output stays clean.
func noData(res source.Result) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", ui.WarnIcon(), ui.Warn.Sprint("No relationship data"))
	if res.Location != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ui.Subtle.Sprintf("%s: %v", res.Location, res.Err))
	} else if res.Err != nil {
		fmt.Fprintf(os.Stderr, "  %s\n", ui.Subtle.Sprint(res.Err))
	}
}
