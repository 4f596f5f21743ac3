package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/agiangrant/ctdlayout/retained"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Scene is a widget tree described in TOML:
//
//	[window]
//	width = 400
//	height = 300
//
//	[root]
//	kind = "vstack"
//	classes = "p-2 gap-2"
//
//	[[root.children]]
//	kind = "label"
//	text = "Hello"
type Scene struct {
	Window *WindowConfig `toml:"window"`
	Root   Node          `toml:"root"`
}

// Node is one widget of a scene.
type Node struct {
	Kind    string `toml:"kind"`
	Name    string `toml:"name"`
	Text    string `toml:"text"`
	Classes string `toml:"classes"`

	// Layout picks the layout of a plain container: horizontal, vertical,
	// grid or selector.
	Layout  string   `toml:"layout"`
	Margin  *float32 `toml:"margin"`
	Spacing *float32 `toml:"spacing"`
	Columns int      `toml:"columns"`
	Rows    int      `toml:"rows"`

	// Active is the shown child of a selector, tab or selection box.
	Active int `toml:"active"`

	// Cell is [x, y] or [x, y, spanX, spanY] inside a grid parent.
	Cell    []int    `toml:"cell"`
	Checked bool     `toml:"checked"`
	Hidden  bool     `toml:"hidden"`
	Options []string `toml:"options"`

	Children []Node `toml:"children"`
}

// Widget kinds accepted in scene files.
const (
	kindContainer = "container"
	kindVStack    = "vstack"
	kindHStack    = "hstack"
	kindGrid      = "grid"
	kindStack     = "stack"
	kindSpacer    = "spacer"
	kindLabel     = "label"
	kindButton    = "button"
	kindCheckbox  = "checkbox"
	kindTextBox   = "textbox"
	kindScroll    = "scroll"
	kindTabs      = "tabs"
	kindSelect    = "select"
)

var layoutKinds = map[string]string{
	"horizontal": kindHStack,
	"vertical":   kindVStack,
	"grid":       kindGrid,
	"selector":   kindStack,
}

// ParseScene decodes a scene. Unknown keys are rejected so a typo does not
// silently produce a different tree.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, errors.Errorf("unknown keys:\n%s", strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.Errorf("line %d column %d: %s", row, col, derr.Error())
		}
		return nil, err
	}
	if s.Window != nil && (s.Window.Width <= 0 || s.Window.Height <= 0) {
		return nil, errors.Errorf("window size %vx%v must be positive", s.Window.Width, s.Window.Height)
	}
	return &s, nil
}

// LoadScene reads and decodes the scene at path.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return s, nil
}

// WindowSize returns the scene's window, or fallback when it has none.
func (s *Scene) WindowSize(fallback WindowConfig) WindowConfig {
	if s.Window != nil {
		return *s.Window
	}
	return fallback
}

// Build turns the scene into a widget tree. Every widget reports to logger.
func (s *Scene) Build(cfg retained.Config, logger *slog.Logger) (*retained.Widget, error) {
	cfg.Logger = logger
	var b builder
	root, err := b.node(s.Root, cfg, "root")
	if err != nil {
		return nil, err
	}
	if err := root.Err(); err != nil {
		return nil, err
	}
	root.Walk(func(w *retained.Widget, _ int) bool {
		w.SetLogger(logger)
		return true
	})
	return root, nil
}

type builder struct{}

func (b *builder) node(n Node, cfg retained.Config, path string) (*retained.Widget, error) {
	kind, err := resolveKind(n)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if n.Name != "" {
		path = n.Name
	}
	if n.Margin != nil {
		cfg.Margin = *n.Margin
	}
	if n.Spacing != nil {
		cfg.Spacing = *n.Spacing
	}

	children := make([]*retained.Widget, 0, len(n.Children))
	for i, c := range n.Children {
		w, err := b.node(c, cfg, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, w)
	}

	w, err := b.widget(kind, n, cfg, children)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if n.Name != "" {
		w.SetName(n.Name)
	}
	if err := applyCell(w, n.Cell); err != nil {
		return nil, errors.Wrap(err, path)
	}
	if n.Checked {
		w.SetChecked(true)
	}
	if n.Hidden {
		w.SetVisible(false)
	}
	return w, nil
}

func resolveKind(n Node) (string, error) {
	kind := strings.ToLower(n.Kind)
	if n.Layout == "" {
		if kind == "" {
			return kindContainer, nil
		}
		return kind, nil
	}
	lk, ok := layoutKinds[strings.ToLower(n.Layout)]
	if !ok {
		return "", errors.Errorf("unknown layout %q", n.Layout)
	}
	if kind != "" && kind != kindContainer && kind != lk {
		return "", errors.Errorf("layout %q does not apply to kind %q", n.Layout, n.Kind)
	}
	return lk, nil
}

func (b *builder) widget(kind string, n Node, cfg retained.Config, children []*retained.Widget) (*retained.Widget, error) {
	leaf := func(w *retained.Widget) (*retained.Widget, error) {
		if len(children) > 0 {
			return nil, errors.Errorf("%s cannot have children", kind)
		}
		return w, nil
	}

	switch kind {
	case kindContainer:
		if len(children) > 0 {
			return nil, errors.New("container without a layout cannot have children; set layout")
		}
		return retained.Container(n.Classes), nil
	case kindVStack:
		return retained.VStack(cfg, n.Classes, children...), nil
	case kindHStack:
		return retained.HStack(cfg, n.Classes, children...), nil
	case kindGrid:
		return retained.Grid(cfg, n.Columns, n.Rows, n.Classes, children...), nil
	case kindStack:
		w := retained.Stack(cfg, n.Classes, children...)
		if sel, ok := w.Layout().(*retained.SelectorLayout); ok && n.Active != 0 {
			if err := sel.SetActiveItem(n.Active); err != nil {
				return nil, errors.Wrap(err, "active")
			}
		}
		return w, nil
	case kindSpacer:
		return leaf(retained.Spacer())
	case kindLabel:
		return leaf(retained.NewLabel(n.Text, n.Classes))
	case kindButton:
		return leaf(retained.NewButton(n.Text, n.Classes))
	case kindCheckbox:
		return leaf(retained.NewCheckbox(n.Text, n.Classes))
	case kindTextBox:
		return leaf(retained.NewTextBox(n.Text, n.Classes))
	case kindScroll:
		if len(children) != 1 {
			return nil, errors.Errorf("scroll needs exactly one child, got %d", len(children))
		}
		a, err := retained.NewScrollArea(cfg, children[0], n.Classes)
		if err != nil {
			return nil, err
		}
		return a.Widget, nil
	case kindTabs:
		tc := retained.NewTabContainer(cfg, n.Classes)
		for i, page := range children {
			title := page.Name()
			if title == "" {
				title = fmt.Sprintf("Tab %d", i+1)
			}
			if err := tc.AddTab(title, page); err != nil {
				return nil, err
			}
		}
		if n.Active != 0 {
			if err := tc.SetCurrentTab(n.Active); err != nil {
				return nil, errors.Wrap(err, "active")
			}
		}
		return tc.Widget, nil
	case kindSelect:
		if len(children) > 0 {
			return nil, errors.New("select takes options, not children")
		}
		sb, err := retained.NewSelectionBox(cfg, n.Classes, n.Options...)
		if err != nil {
			return nil, err
		}
		if n.Active < 0 || (n.Active > 0 && n.Active >= len(n.Options)) {
			return nil, errors.Wrapf(retained.ErrIndexOutOfRange, "active %d", n.Active)
		}
		for range n.Active {
			sb.Next()
		}
		return sb.Widget, nil
	default:
		return nil, errors.Errorf("unknown kind %q", n.Kind)
	}
}

func applyCell(w *retained.Widget, cell []int) error {
	switch len(cell) {
	case 0:
		return nil
	case 2:
		w.SetCell(cell[0], cell[1], 1, 1)
	case 4:
		w.SetCell(cell[0], cell[1], cell[2], cell[3])
	default:
		return errors.Errorf("cell %v: want [x, y] or [x, y, spanX, spanY]", cell)
	}
	return nil
}
