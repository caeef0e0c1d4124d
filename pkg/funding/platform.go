package funding

import "strings"

// Platform identifies the payment platform behind a funding link.
//
// The constants below are the canonical spellings used by the Github
// fundingLinks API. Values that don't match any constant are preserved
// verbatim, so links on platforms added to the forge after this release
// still resolve and render instead of being dropped.
type Platform string

const (
	PlatformCommunityBridge Platform = "COMMUNITY_BRIDGE"
	PlatformCustom          Platform = "CUSTOM"
	PlatformGithub          Platform = "GITHUB"
	PlatformIssueHunt       Platform = "ISSUEHUNT"
	PlatformKofi            Platform = "KO_FI"
	PlatformLiberapay       Platform = "LIBERAPAY"
	PlatformOpenCollective  Platform = "OPEN_COLLECTIVE"
	PlatformOtechie         Platform = "OTECHIE"
	PlatformPatreon         Platform = "PATREON"
	PlatformTidelift        Platform = "TIDELIFT"
)

var knownPlatforms = map[Platform]bool{
	PlatformCommunityBridge: true,
	PlatformCustom:          true,
	PlatformGithub:          true,
	PlatformIssueHunt:       true,
	PlatformKofi:            true,
	PlatformLiberapay:       true,
	PlatformOpenCollective:  true,
	PlatformOtechie:         true,
	PlatformPatreon:         true,
	PlatformTidelift:        true,
}

// ParsePlatform maps a platform string from the API to a Platform.
// Matching is case-insensitive; unrecognized strings pass through unchanged.
func ParsePlatform(s string) Platform {
	if p := Platform(strings.ToUpper(s)); knownPlatforms[p] {
		return p
	}
	return Platform(s)
}

// Known reports whether p is one of the fixed platform constants.
func (p Platform) Known() bool { return knownPlatforms[p] }
