package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/meshloop/scene"
)

var titleCaser = cases.Title(language.English)

// windowTitle returns title, or a title naming sceneName when title is empty.
func windowTitle(title, sceneName string) string {
	if title != "" {
		return title
	}
	if sceneName == "" {
		return "meshloop"
	}
	return "meshloop: " + titleCaser.String(sceneName)
}

// printScenes writes the registered scenes, default first.
func printScenes(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, name := range scene.List() {
		entry, ok := scene.Get(name)
		if !ok {
			continue
		}
		mark := ""
		if i == 0 {
			mark = " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s%s\n", name, titleCaser.String(entry.Description), mark)
	}
	tw.Flush()
}
