// Package config resolves the runtime configuration of a gofund invocation.
//
// Credentials follow a strict precedence chain: the --github-api-token flag,
// then the GOFUND_GITHUB_TOKEN and GITHUB_TOKEN environment variables, then
// the TOML config file at ~/.config/gofund/config.toml, and finally the
// token saved by `gofund login`. The first source that produces a non-empty
// token wins.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gofund/pkg/errors"
	"github.com/matzehuels/gofund/pkg/integrations"
	"github.com/matzehuels/gofund/pkg/session"
)

// MissingTokenHelp tells the user how to provide a credential. The fund
// command prints it verbatim when no token can be resolved.
const MissingTokenHelp = "Github API token must be provided through the " +
	"GOFUND_GITHUB_TOKEN environment variable, the --github-api-token flag, " +
	"or by running 'gofund login'."

// Config is the fully resolved configuration for one run.
type Config struct {
	Token    string
	Endpoint string // GraphQL endpoint override; empty means the public API
	Timeout  time.Duration
}

// File mirrors the on-disk TOML layout.
type File struct {
	GithubToken string `toml:"github_token"`
	Endpoint    string `toml:"endpoint"`
	Timeout     string `toml:"timeout"` // time.ParseDuration syntax
}

// SessionTokens reads saved login tokens. *session.CLIStore satisfies it.
type SessionTokens interface {
	GetSession(ctx context.Context) (*session.Session, error)
}

// Options carries the caller-provided inputs to Load.
type Options struct {
	FlagToken   string        // value of --github-api-token
	FlagTimeout time.Duration // value of --timeout; zero means unset
	Path        string        // config file path override; empty means the default
	Sessions    SessionTokens // nil skips the saved-login source
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gofund", "config.toml"), nil
}

// Load resolves the configuration from flags, environment, config file, and
// saved session, in that order of precedence. A missing token is not an
// error here; the caller decides whether the operation needs one.
func Load(ctx context.Context, opts Options) (*Config, error) {
	cfg := &Config{
		Token:    opts.FlagToken,
		Endpoint: os.Getenv("GOFUND_GITHUB_ENDPOINT"),
		Timeout:  opts.FlagTimeout,
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("GOFUND_GITHUB_TOKEN")
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	file, err := loadFile(opts.Path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		if cfg.Token == "" {
			cfg.Token = file.GithubToken
		}
		if cfg.Endpoint == "" {
			cfg.Endpoint = file.Endpoint
		}
		if cfg.Timeout == 0 && file.Timeout != "" {
			d, err := time.ParseDuration(file.Timeout)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfig, err, "invalid timeout in config file")
			}
			cfg.Timeout = d
		}
	}

	if cfg.Token == "" && opts.Sessions != nil {
		sess, err := opts.Sessions.GetSession(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "read saved login")
		}
		if sess != nil {
			cfg.Token = sess.AccessToken
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = integrations.DefaultTimeout
	}
	return cfg, nil
}

func loadFile(path string) (*File, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, nil
		}
	}

	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "parse config file")
	}
	return &file, nil
}
