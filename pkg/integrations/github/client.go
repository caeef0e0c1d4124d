package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/gofund/pkg/errors"
	"github.com/matzehuels/gofund/pkg/funding"
	"github.com/matzehuels/gofund/pkg/integrations"
)

const (
	defaultEndpoint = "https://api.github.com/graphql"
	restEndpoint    = "https://api.github.com"

	// Fixed remediation text. Tests and users depend on the exact wording.
	tokenHelp = "Invalid Github API token. Create a token with the `public_repo` and `user` scopes at https://github.com/settings/tokens."

	scopesHelp = "Insufficient Github API token scopes. Modify your token to include the `public_repo` and `user` scopes at https://github.com/settings/tokens."

	malformedResponse = "malformed Github API response"
)

// Config configures the GraphQL client.
type Config struct {
	Token        string
	Endpoint     string               // GraphQL endpoint; defaults to the public API
	RESTEndpoint string               // REST endpoint; defaults to the public API
	Timeout      time.Duration        // enforced by the transport
	Logf         func(string, ...any) // sink for recoverable warnings (optional)
	Debugf       func(string, ...any) // sink for diagnostics like rate limit (optional)
}

// Client resolves funding links through the Github GraphQL API.
type Client struct {
	*integrations.Client
	endpoint string
	rest     string
	logf     func(string, ...any)
	debugf   func(string, ...any)
}

// NewClient creates a client authenticated with the given bearer token.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	rest := cfg.RESTEndpoint
	if rest == "" {
		rest = restEndpoint
	}
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	debugf := cfg.Debugf
	if debugf == nil {
		debugf = func(string, ...any) {}
	}
	headers := map[string]string{"Authorization": "Bearer " + cfg.Token}
	return &Client{
		Client:   integrations.NewClient(cfg.Timeout, headers),
		endpoint: endpoint,
		rest:     rest,
		logf:     logf,
		debugf:   debugf,
	}
}

// responseEnvelope is the loose GraphQL response shape. Success and partial
// failure share it: an optional error list may coexist with a data object,
// so both fields decode independently and per-alias payloads stay raw until
// the side table says what kind they are.
type responseEnvelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []responseError            `json:"errors"`
}

type responseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type repoPayload struct {
	FundingLinks []struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
	} `json:"fundingLinks"`
}

type ownerPayload struct {
	SponsorsListing *struct {
		ID string `json:"id"`
	} `json:"sponsorsListing"`
}

type rateLimitPayload struct {
	Cost      int `json:"cost"`
	Remaining int `json:"remaining"`
}

// ResolveLinks resolves every source in sources with a single GraphQL
// request and merges the discovered links into resolved. Recoverable
// conditions (a source that no longer exists, one bad link) are logged and
// skipped; any returned error is fatal for the run.
func (c *Client) ResolveLinks(ctx context.Context, sources funding.SourceMap, resolved funding.ResolvedMap) error {
	query, table := buildQuery(sources)

	resp, err := c.PostJSON(ctx, c.endpoint, map[string]string{"query": query})
	if err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "query Github API")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New(errors.ErrCodeAuth, "%s", tokenHelp)
	default:
		return errors.New(errors.ErrCodeProtocol, "Github API returned unexpected status: %d", resp.StatusCode)
	}

	var env responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, "decode Github API response")
	}

	if err := c.classifyErrors(env.Errors); err != nil {
		return err
	}

	for alias, entry := range table {
		raw, ok := env.Data[alias]
		if !ok || isNull(raw) {
			// No payload for this alias: an invalid, private, or vanished
			// repo or owner. Its NOT_FOUND entry was already logged.
			continue
		}
		switch entry.source.Kind {
		case funding.SourceRepo:
			if err := c.mergeRepoLinks(raw, entry, resolved); err != nil {
				return err
			}
		case funding.SourceOwner:
			if err := c.mergeOwnerLink(raw, entry, resolved); err != nil {
				return err
			}
		}
	}

	if raw, ok := env.Data["rateLimit"]; ok && !isNull(raw) {
		var rl rateLimitPayload
		if err := json.Unmarshal(raw, &rl); err == nil {
			c.debugf("Github rate limit: cost=%d remaining=%d", rl.Cost, rl.Remaining)
		}
	}
	return nil
}

// classifyErrors partitions the response's error list. Only NOT_FOUND is
// recoverable: the referenced repo or owner no longer resolves, so its
// alias simply contributes nothing. Everything else aborts the run before
// any output is produced.
func (c *Client) classifyErrors(errs []responseError) error {
	for _, e := range errs {
		if e.Message == "" {
			return errors.New(errors.ErrCodeProtocol, malformedResponse)
		}
		switch e.Type {
		case "INSUFFICIENT_SCOPES":
			return errors.New(errors.ErrCodeAuth, "%s", scopesHelp)
		case "NOT_FOUND":
			c.logf("%s", e.Message)
		case "":
			return errors.New(errors.ErrCodeProtocol, malformedResponse)
		default:
			return errors.New(errors.ErrCodeProtocol, "Github API response contained error: %s", e.Message)
		}
	}
	return nil
}

func (c *Client) mergeRepoLinks(raw json.RawMessage, entry aliasEntry, resolved funding.ResolvedMap) error {
	var payload repoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, malformedResponse)
	}
	for _, fl := range payload.FundingLinks {
		link, err := funding.NewLink(fl.Platform, fl.URL)
		if err != nil {
			c.logf("could not parse Github funding link (platform=%s url=%s); skipping: %v", fl.Platform, fl.URL, err)
			continue
		}
		for pkg := range entry.packages {
			resolved.AddLink(pkg, link)
		}
	}
	return nil
}

func (c *Client) mergeOwnerLink(raw json.RawMessage, entry aliasEntry, resolved funding.ResolvedMap) error {
	var payload ownerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errors.Wrap(errors.ErrCodeProtocol, err, malformedResponse)
	}
	if payload.SponsorsListing == nil {
		return nil
	}
	link, err := ownerLink(entry.source.Owner)
	if err != nil {
		c.logf("could not create valid owner sponsor link (owner=%s); skipping: %v", entry.source.Owner, err)
		return nil
	}
	for pkg := range entry.packages {
		resolved.AddLink(pkg, link)
	}
	return nil
}

// ownerLink synthesizes the sponsors link for an owner with an active
// sponsorship listing. The listing payload carries no URL; the link is
// built directly from the owner's login.
func ownerLink(owner string) (funding.Link, error) {
	u, err := url.Parse("https://github.com/sponsors/" + owner)
	if err != nil {
		return funding.Link{}, err
	}
	return funding.Link{Platform: funding.PlatformGithub, URL: u.String()}, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// User represents the authenticated Github user.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FetchUser retrieves the user the client's token belongs to.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.GetJSON(ctx, c.rest+"/user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
