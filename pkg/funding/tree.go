package funding

import (
	"fmt"
	"io"
	"strings"
)

// lineRole classifies a line's position among its siblings at one nesting
// level of the tree.
type lineRole int

const (
	roleOnly lineRole = iota
	roleFirst
	roleMiddle
	roleLast
)

func roleOf(i, n int) lineRole {
	switch {
	case n == 1:
		return roleOnly
	case i == 0:
		return roleFirst
	case i == n-1:
		return roleLast
	default:
		return roleMiddle
	}
}

// outerGlyphs selects the first two characters of a link line from the
// group's role: one glyph pair for the group's first link line, another for
// every later line in the group. Non-last groups keep a vertical trunk so
// the tree stays visually continuous beneath them.
var outerGlyphs = map[lineRole][2]string{
	roleOnly:   {"──", "  "},
	roleFirst:  {"├─", "│ "},
	roleMiddle: {"├─", "│ "},
	roleLast:   {"└─", "  "},
}

// innerGlyphs selects the next two characters of a link line from the
// link's own role within the group.
var innerGlyphs = map[lineRole]string{
	roleOnly:   "──",
	roleFirst:  "┬─",
	roleMiddle: "├─",
	roleLast:   "└─",
}

// packageGlyphs selects the branch glyph of a package line.
var packageGlyphs = map[lineRole]string{
	roleOnly:   "└─",
	roleFirst:  "├─",
	roleMiddle: "├─",
	roleLast:   "└─",
}

// RenderTree writes the grouped funding links as a box-drawn tree.
//
// The first line reports how many of the dependencies resolved to at least
// one link. Each group then renders its links followed by its packages,
// indented one level deeper. The glyph choice for every line is fixed by
// the group's and the line's position, so the output is byte-stable for
// identical input; clients diff it between runs.
func RenderTree(w io.Writer, root string, groups []Group, matched, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (found funding links for %d out of %d dependencies)\n", root, matched, total)

	for gi, group := range groups {
		groupRole := roleOf(gi, len(groups))
		outer := outerGlyphs[groupRole]

		for li, link := range group.Links {
			prefix := outer[1]
			if li == 0 {
				prefix = outer[0]
			}
			b.WriteString(prefix)
			b.WriteString(innerGlyphs[roleOf(li, len(group.Links))])
			b.WriteString(" ")
			b.WriteString(link.URL)
			b.WriteString("\n")
		}

		trunk := "     "
		if groupRole == roleFirst || groupRole == roleMiddle {
			trunk = "│    "
		}
		for pi, pkg := range group.Packages {
			b.WriteString(trunk)
			b.WriteString(packageGlyphs[roleOf(pi, len(group.Packages))])
			fmt.Fprintf(&b, " %s %s\n", pkg.Name, pkg.Version)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
