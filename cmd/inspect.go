package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/nav"
)

var (
	inspectFile string
	inspectView bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Print the classified navigation tree and the entries active at path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := cfg.NavigationFile
		if inspectFile != "" {
			file = inspectFile
		}

		items, err := nav.LoadFile(file, cfg.NavigationKey)
		if err != nil {
			return fmt.Errorf("loading navigation: %w", err)
		}

		path := nav.RootPath
		if len(args) == 1 {
			path = args[0]
		}

		return inspect(cmd.OutOrStdout(), items, path, inspectView)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "navigation file (defaults to navigation_file from config)")
	inspectCmd.Flags().BoolVar(&inspectView, "view", false, "print the first-paint view as JSON")
	rootCmd.AddCommand(inspectCmd)
}

// inspect writes one line per entry: depth indent, marker, kind, resolved
// path and name. "*" marks an active entry, "+" an entry with an active
// descendant.
func inspect(w io.Writer, items []nav.Item, path string, view bool) error {
	if view {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(menu.Render(items, path)); err != nil {
			return fmt.Errorf("encoding view: %w", err)
		}
		return nil
	}

	nav.Walk(items, func(e nav.Entry, depth int) bool {
		marker := " "
		switch {
		case nav.IsActive(e.Resolved, path):
			marker = "*"
		case nav.HasActiveDescendantAt(e.Item, e.Resolved, path):
			marker = "+"
		}
		fmt.Fprintf(w, "%s%s %-7s %s  %s\n",
			strings.Repeat("  ", depth-1), marker, nav.Classify(e.Item), e.Resolved, e.Name)
		return true
	})

	for _, p := range nav.Validate(items) {
		fmt.Fprintf(w, "warning: %s\n", p)
	}
	return nil
}
