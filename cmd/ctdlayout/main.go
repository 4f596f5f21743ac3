package main

import (
	"fmt"
	"os"

	"github.com/agiangrant/ctdlayout/cmd/ctdlayout/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "compute":
		err = commands.Compute(args)
	case "render":
		err = commands.Render(args)
	case "init":
		err = commands.Init(args)
	case "version", "-v", "--version":
		fmt.Printf("ctdlayout version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ctdlayout - layout negotiation toolkit CLI

Usage: ctdlayout <command> [options]

Commands:
  compute   Lay out one or more scene files and print every widget's box
  render    Draw an ASCII preview of a scene
  init      Write ctdlayout.toml and a sample scene.toml
  version   Print version information
  help      Show this help message

Examples:
  ctdlayout init
  ctdlayout compute scene.toml
  ctdlayout compute -width 320 -height 480 a.toml b.toml
  ctdlayout render -cols 100 scene.toml

Configuration:
  Layout defaults, the fallback window size and logging are read from
  ctdlayout.toml in the project root.`)
}
