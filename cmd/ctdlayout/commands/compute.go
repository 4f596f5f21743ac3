package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/agiangrant/ctdlayout/geom"
	"github.com/agiangrant/ctdlayout/retained"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of laying out one scene.
type Result struct {
	Path   string
	Window WindowConfig
	Rows   []Row
	Root   *retained.Widget
	Err    error
}

// Row is one widget of a laid out scene, in tree order.
type Row struct {
	Depth   int
	Name    string
	Text    string
	Kind    retained.WidgetKind
	Area    geom.Box // absolute
	Visible bool
	Err     error
}

// Label returns the name shown for the row.
func (r Row) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return "(" + string(r.Kind) + ")"
}

// Compute implements the 'ctdlayout compute' command
func Compute(args []string) error {
	fs := flag.NewFlagSet("compute", flag.ExitOnError)
	width := fs.Float64("width", 0, "Window width (overrides the scene)")
	height := fs.Float64("height", 0, "Window height (overrides the scene)")
	hidden := fs.Bool("hidden", false, "List hidden widgets too")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "Scenes laid out at once")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("usage: ctdlayout compute [options] <scene.toml>...")
	}

	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := config.Theme.Apply(); err != nil {
		return errors.Wrap(err, "theme")
	}
	logger, err := NewLogger(os.Stderr, config.Log)
	if err != nil {
		return err
	}
	override := WindowConfig{Width: float32(*width), Height: float32(*height)}

	results, err := ComputeScenes(context.Background(), fs.Args(), config, override, *jobs, logger)
	if err != nil {
		return err
	}
	WriteResults(os.Stdout, results, *hidden)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d scenes failed", failed, len(results))
	}
	return nil
}

// ComputeScenes lays out every scene, up to jobs at a time. Each scene gets
// its own tree, so passes never share widgets. A scene that fails to load or
// lay out records the error in its Result; the returned error is only set
// when ctx is done.
func ComputeScenes(ctx context.Context, paths []string, config ProjectConfig, override WindowConfig, jobs int, logger *slog.Logger) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = computeScene(path, config, override, logger.With(slog.String("scene", path)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func computeScene(path string, config ProjectConfig, override WindowConfig, logger *slog.Logger) Result {
	r := Result{Path: path}

	scene, err := LoadScene(path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Window = scene.WindowSize(config.Window)
	if override.Width > 0 {
		r.Window.Width = override.Width
	}
	if override.Height > 0 {
		r.Window.Height = override.Height
	}

	root, err := scene.Build(config.Layout.Retained(), logger)
	if err != nil {
		r.Err = errors.Wrapf(err, "failed to build %s", path)
		return r
	}
	r.Root = root

	logger.Debug("computing layout",
		slog.Float64("width", float64(r.Window.Width)),
		slog.Float64("height", float64(r.Window.Height)))
	if err := retained.ComputeLayout(root, r.Window.Width, r.Window.Height); err != nil {
		r.Err = errors.Wrapf(err, "failed to lay out %s", path)
	}
	r.Rows = collectRows(root)
	return r
}

func collectRows(root *retained.Widget) []Row {
	var rows []Row
	root.Walk(func(w *retained.Widget, depth int) bool {
		rows = append(rows, Row{
			Depth:   depth,
			Name:    w.Name(),
			Text:    w.Text(),
			Kind:    w.Kind(),
			Area:    w.AbsoluteArea(),
			Visible: w.Visible(),
			Err:     w.LayoutError(),
		})
		return true
	})
	return rows
}

// WriteResults prints one table per scene. Hidden widgets and their
// subtrees are left out unless showHidden is set.
func WriteResults(out io.Writer, results []Result, showHidden bool) {
	re := lipgloss.NewRenderer(out)
	var (
		title   = re.NewStyle().Bold(true)
		header  = re.NewStyle().Faint(true)
		failure = re.NewStyle().Foreground(lipgloss.Color("9"))
		dim     = re.NewStyle().Foreground(lipgloss.Color("8"))
	)

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %vx%v\n", title.Render(r.Path), r.Window.Width, r.Window.Height)
		if r.Rows == nil && r.Err != nil {
			fmt.Fprintln(out, failure.Render("  error: "+r.Err.Error()))
			continue
		}

		rows := visibleRows(r.Rows, showHidden)
		nameW := runewidth.StringWidth("widget")
		for _, row := range rows {
			nameW = max(nameW, row.Depth*2+runewidth.StringWidth(row.Label()))
		}

		fmt.Fprintln(out, header.Render(fmt.Sprintf("  %s  %-13s %8s %8s %8s %8s",
			runewidth.FillRight("widget", nameW), "kind", "left", "top", "width", "height")))
		for _, row := range rows {
			name := runewidth.FillRight(strings.Repeat("  ", row.Depth)+row.Label(), nameW)
			line := fmt.Sprintf("  %s  %-13s %8.1f %8.1f %8.1f %8.1f",
				name, row.Kind, row.Area.Left(), row.Area.Top(), row.Area.W, row.Area.H)
			switch {
			case row.Err != nil:
				line += "  " + row.Err.Error()
				fmt.Fprintln(out, failure.Render(line))
			case !row.Visible:
				fmt.Fprintln(out, dim.Render(line+"  hidden"))
			default:
				fmt.Fprintln(out, line)
			}
		}
		if r.Err != nil {
			fmt.Fprintln(out, failure.Render("  error: "+r.Err.Error()))
		}
	}
}

func visibleRows(rows []Row, showHidden bool) []Row {
	if showHidden {
		return rows
	}
	out := make([]Row, 0, len(rows))
	skipBelow := -1
	for _, row := range rows {
		if skipBelow >= 0 && row.Depth > skipBelow {
			continue
		}
		skipBelow = -1
		if !row.Visible {
			skipBelow = row.Depth
			continue
		}
		out = append(out, row)
	}
	return out
}
