package commands

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SceneFileName is the sample scene written by init.
const SceneFileName = "scene.toml"

// Init implements the 'ctdlayout init' command
func Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing files")
	fs.Parse(args)

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}
	created, err := InitProject(dir, *force)
	for _, name := range created {
		fmt.Printf("  ✓ Created %s\n", name)
	}
	if err != nil {
		return err
	}

	fmt.Println("")
	fmt.Println("Next steps:")
	fmt.Println("  ctdlayout compute scene.toml   # print the computed boxes")
	fmt.Println("  ctdlayout render scene.toml    # draw an ASCII preview")
	return nil
}

// InitProject writes ctdlayout.toml and a sample scene into dir and
// returns the files it created. Existing files are kept unless force is set.
func InitProject(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", dir)
	}

	var created []string
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, errors.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := SaveConfig(dir, DefaultConfig()); err != nil {
		return nil, err
	}
	created = append(created, ConfigFileName)

	scenePath := filepath.Join(dir, SceneFileName)
	if _, err := os.Stat(scenePath); os.IsNotExist(err) || force {
		if err := os.WriteFile(scenePath, []byte(defaultSceneToml), 0644); err != nil {
			return created, errors.Wrapf(err, "failed to create %s", scenePath)
		}
		created = append(created, SceneFileName)
	}
	return created, nil
}

const defaultSceneToml = `# ctdlayout scene
# Widgets nest under [root] through [[...children]] tables.
# Size classes: w-*, h-*, min-w-*, max-h-*, expand-x, fixed-y, stretch-x-*,
# col-*, row-*, col-span-*, p-* (layout margin), gap-* (layout spacing).

[window]
width = 640
height = 400

[root]
kind = "vstack"
name = "main"
classes = "p-2 gap-2"

[[root.children]]
kind = "hstack"
name = "toolbar"
classes = "fixed-y"

[[root.children.children]]
kind = "button"
text = "Open"

[[root.children.children]]
kind = "button"
text = "Save"

[[root.children.children]]
kind = "spacer"

[[root.children.children]]
kind = "select"
options = ["Light", "Dark"]

[[root.children]]
kind = "grid"
name = "form"
columns = 2
rows = 2

[[root.children.children]]
kind = "label"
text = "Name"

[[root.children.children]]
kind = "textbox"
text = "Your name"

[[root.children.children]]
kind = "checkbox"
text = "Subscribe"
cell = [0, 1, 2, 1]

[[root.children]]
kind = "tabs"
name = "pages"
classes = "expand-y"

[[root.children.children]]
kind = "label"
name = "Overview"
text = "Overview page"
classes = "expand-x expand-y"

[[root.children.children]]
kind = "label"
name = "Details"
text = "Details page"
classes = "expand-x expand-y"
`
