//go:build docs

package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/maxgio92/tickprof/internal/settings"
	"github.com/maxgio92/tickprof/pkg/cmd"
)

const (
	formatMarkdown = "markdown"
	formatMan      = "man"
)

var (
	filePrepender = func(string) string {
		return ""
	}
	linkHandler = func(filename string) string {
		if filename == settings.CmdName+".md" {
			// This is the root command.
			return "README.md"
		}
		return filename
	}
)

func main() {
	dir := flag.String("dir", "docs", "Output directory")
	format := flag.String("format", formatMarkdown, "Output format (markdown, man)")
	flag.Parse()

	root := cmd.NewCommand(
		cmd.NewOptions(
			cmd.WithLogger(log.New(os.Stderr).Level(log.InfoLevel)),
		),
	)

	if err := generate(root, *dir, *format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(root *cobra.Command, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	switch format {
	case formatMarkdown:
		if err := doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler); err != nil {
			return err
		}
		// Render the root command page as the directory index.
		return os.Rename(path.Join(dir, settings.CmdName+".md"), path.Join(dir, "README.md"))
	case formatMan:
		return doc.GenManTree(root, &doc.GenManHeader{
			Title:   strings.ToUpper(settings.CmdName),
			Section: "1",
		}, dir)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
