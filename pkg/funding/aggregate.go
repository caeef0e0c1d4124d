package funding

import (
	"sort"
	"strings"
)

// Group clusters packages that share an identical set of funding links.
type Group struct {
	Links    []Link       // sorted by (platform, URL)
	Packages []PackageRef // sorted by (name, version, id)
}

// GroupByLinks inverts the package→links mapping so the output can be
// grouped by unique sets of funding links. Each link set is normalized into
// a sorted sequence before grouping, so set content rather than insertion
// order defines equality. Groups come back sorted by their link sequence and
// packages sorted within each group; identical input always produces
// identical output.
func GroupByLinks(resolved ResolvedMap) []Group {
	byKey := make(map[string]*Group)
	for pkg, links := range resolved {
		sorted := sortLinks(links)
		key := linkSetKey(sorted)
		g, ok := byKey[key]
		if !ok {
			g = &Group{Links: sorted}
			byKey[key] = g
		}
		g.Packages = append(g.Packages, pkg)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(byKey))
	for _, key := range keys {
		g := byKey[key]
		sortPackages(g.Packages)
		groups = append(groups, *g)
	}
	return groups
}

func sortLinks(set map[Link]struct{}) []Link {
	links := make([]Link, 0, len(set))
	for l := range set {
		links = append(links, l)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Less(links[j]) })
	return links
}

func sortPackages(pkgs []PackageRef) {
	sort.Slice(pkgs, func(i, j int) bool {
		a, b := pkgs[i], pkgs[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.ID < b.ID
	})
}

// linkSetKey serializes a sorted link sequence into a single grouping key.
// The per-link terminator sorts below every URL character, so comparing keys
// lexicographically matches comparing the link sequences element-wise, with
// a shorter prefix ordering first.
func linkSetKey(links []Link) string {
	var b strings.Builder
	for _, l := range links {
		b.WriteString(l.key())
		b.WriteByte(0x01)
	}
	return b.String()
}
