package funding

import (
	"fmt"
	"net/url"
)

// Link is a funding destination URL tagged with its payment platform.
// Two links are the same funding destination iff platform and URL match.
type Link struct {
	Platform Platform
	URL      string // normalized absolute URL
}

// NewLink builds a Link from a raw (platform, url) pair as returned by the
// forge's fundingLinks API. The URL is parsed and re-serialized so that
// equality checks compare canonical forms.
//
// The GITHUB platform is special-cased: the API returns a bare profile URL
// (https://github.com/owner) instead of a sponsors URL, so the sponsors path
// segment is spliced in front of the existing path. Every other platform
// already comes back as a full external URL.
func NewLink(platform, rawURL string) (Link, error) {
	p := ParsePlatform(platform)
	u, err := url.Parse(rawURL)
	if err != nil {
		return Link{}, fmt.Errorf("parse funding link %q: %w", rawURL, err)
	}
	if p == PlatformGithub {
		if u.Path == "" {
			return Link{}, fmt.Errorf("github funding link %q has no path", rawURL)
		}
		u.Path = "/sponsors" + u.Path
	}
	return Link{Platform: p, URL: u.String()}, nil
}

// key is the sort and grouping key for a link. The NUL separator keeps the
// platform and URL components from running into each other.
func (l Link) key() string { return string(l.Platform) + "\x00" + l.URL }

// Less orders links by (platform, URL). The canonical platform spellings
// sort in the same order the platforms are declared in, so output ordering
// matches the fixed enumeration with unknown platforms interleaved
// lexicographically.
func (l Link) Less(other Link) bool { return l.key() < other.key() }
