package fancy

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
)

// MaxValueLength bounds how much of a value KeyNode prints
const MaxValueLength = 48

// DocumentNode creates a tree node for a document. In-memory documents
// have an empty path.
func DocumentNode(name, path string, active bool) *tree.Tree {
	label := DocumentText(name)
	if active {
		label += " " + ActiveStyle.Render("(active)")
	}
	if path == "" {
		path = "in-memory"
	}
	return tree.New().Root(label + " " + PathText(path))
}

// KeyNode renders a key, optionally followed by its value
func KeyNode(key string, value []byte) string {
	if value == nil {
		return KeyText(key)
	}
	return fmt.Sprintf("%s = %s", KeyText(key), TruncateString(string(value), MaxValueLength))
}
