package funding

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceKind distinguishes repo-level from owner-level funding sources.
type SourceKind int

const (
	// SourceRepo is a repository that may declare funding links.
	SourceRepo SourceKind = iota
	// SourceOwner is a repository owner that may run a sponsorship listing.
	SourceOwner
)

// Source is a location on the forge that may publish funding information.
// A repository can carry funding links directly, and its owner may
// separately accept sponsorships, so one repository URL yields a Source of
// each kind; either can produce links even when the other doesn't.
type Source struct {
	Kind  SourceKind
	Owner string
	Name  string // repository name; empty for SourceOwner
}

// Supported forge hosts. Only exact and "www."-prefixed matches count;
// anything else is simply not resolvable here rather than an error.
const (
	forgeHost    = "github.com"
	forgeHostWWW = "www.github.com"
)

// ExtractSources derives the funding sources for a package's repository
// URL. An empty URL or a host other than the forge yields no sources and no
// error. Once the host matches, the metadata is assumed well-formed: a URL
// with fewer than two path segments is an error, as is a URL that does not
// parse at all.
func ExtractSources(repoURL string) ([]Source, error) {
	if repoURL == "" {
		return nil, nil
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return nil, fmt.Errorf("parse repository URL %q: %w", repoURL, err)
	}
	if u.Host != forgeHost && u.Host != forgeHostWWW {
		return nil, nil
	}
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("not a full Github URL: %s", repoURL)
	}
	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	return []Source{
		{Kind: SourceRepo, Owner: owner, Name: name},
		{Kind: SourceOwner, Owner: owner},
	}, nil
}

// PackageRef identifies a resolved dependency. ID is unique within a run;
// Name and Version are what the renderer prints.
type PackageRef struct {
	ID      string
	Name    string
	Version string
}

// Package is one dependency as reported by the metadata collaborator.
type Package struct {
	ID         string
	Name       string
	Version    string
	Repository string // optional repository URL
	Workspace  bool   // member of the local workspace, excluded from resolution
}

// Ref returns the package's identity for resolution and rendering.
func (p Package) Ref() PackageRef {
	return PackageRef{ID: p.ID, Name: p.Name, Version: p.Version}
}

// SourceMap maps each distinct funding source to the set of packages that
// reference it. Several packages may share one repository or owner.
type SourceMap map[Source]map[PackageRef]struct{}

// Add records that pkg references src.
func (m SourceMap) Add(src Source, pkg PackageRef) {
	set, ok := m[src]
	if !ok {
		set = make(map[PackageRef]struct{})
		m[src] = set
	}
	set[pkg] = struct{}{}
}

// CollectSources builds the SourceMap for every non-workspace package.
func CollectSources(pkgs []Package) (SourceMap, error) {
	sources := make(SourceMap)
	for _, pkg := range pkgs {
		if pkg.Workspace {
			continue
		}
		srcs, err := ExtractSources(pkg.Repository)
		if err != nil {
			return nil, err
		}
		for _, src := range srcs {
			sources.Add(src, pkg.Ref())
		}
	}
	return sources, nil
}

// ResolvedMap maps each package to its set of funding links, deduplicated
// by (platform, URL).
type ResolvedMap map[PackageRef]map[Link]struct{}

// AddLink records that pkg can be funded through l.
func (m ResolvedMap) AddLink(pkg PackageRef, l Link) {
	set, ok := m[pkg]
	if !ok {
		set = make(map[Link]struct{})
		m[pkg] = set
	}
	set[l] = struct{}{}
}
