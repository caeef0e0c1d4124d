package github

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/gofund/pkg/funding"
)

// aliasEntry correlates a synthetic query alias back to the source it was
// generated for and the packages that reference that source. The response
// is keyed by alias rather than by source value, so this side table is the
// only way to attribute results.
type aliasEntry struct {
	source   funding.Source
	packages map[funding.PackageRef]struct{}
}

// buildQuery combines every source into a single GraphQL query.
//
// Each source gets a counter-derived alias: owner and repository names can
// contain characters that are invalid as GraphQL identifiers, so aliases
// are never derived from them. Repository owners are exposed by the API as
// a union of Organization and User, which requires one inline fragment per
// kind. A trailing rateLimit fragment reports the remaining request budget.
//
// Sources are sorted before alias assignment so the request body is
// reproducible run to run; nothing downstream may rely on a particular
// alias-to-source binding, since the side table travels with it.
func buildQuery(sources funding.SourceMap) (string, map[string]aliasEntry) {
	ordered := make([]funding.Source, 0, len(sources))
	for src := range sources {
		ordered = append(ordered, src)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Name < b.Name
	})

	table := make(map[string]aliasEntry, len(ordered))
	var q strings.Builder
	q.WriteString("query FundingLinks {")
	for i, src := range ordered {
		alias := fmt.Sprintf("_%d", i)
		switch src.Kind {
		case funding.SourceRepo:
			fmt.Fprintf(&q, `
%s: repository(owner: %q, name: %q) {
  fundingLinks {
    platform
    url
  }
}
`, alias, src.Owner, src.Name)
		case funding.SourceOwner:
			fmt.Fprintf(&q, `
%s: repositoryOwner(login: %q) {
  ... on Organization {
    sponsorsListing {
      id
    }
  }
  ... on User {
    sponsorsListing {
      id
    }
  }
}
`, alias, src.Owner)
		}
		table[alias] = aliasEntry{source: src, packages: sources[src]}
	}
	q.WriteString(`
  rateLimit {
    cost
    remaining
  }
}
`)
	return q.String(), table
}
