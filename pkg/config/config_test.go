package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/gofund/pkg/integrations"
	"github.com/matzehuels/gofund/pkg/session"
)

type fakeSessions struct {
	sess *session.Session
}

func (f *fakeSessions) GetSession(ctx context.Context) (*session.Session, error) {
	return f.sess, nil
}

// clearEnv blanks every credential variable so the surrounding environment
// cannot leak into precedence tests.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOFUND_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GOFUND_GITHUB_ENDPOINT", "")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func missingPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.toml")
}

func TestLoadPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("flag beats everything", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOFUND_GITHUB_TOKEN", "from-env")
		path := writeConfigFile(t, `github_token = "from-file"`)

		cfg, err := Load(ctx, Options{FlagToken: "from-flag", Path: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "from-flag" {
			t.Errorf("Token = %q, want from-flag", cfg.Token)
		}
	})

	t.Run("gofund env beats generic env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOFUND_GITHUB_TOKEN", "from-gofund-env")
		t.Setenv("GITHUB_TOKEN", "from-generic-env")

		cfg, err := Load(ctx, Options{Path: missingPath(t)})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "from-gofund-env" {
			t.Errorf("Token = %q, want from-gofund-env", cfg.Token)
		}
	})

	t.Run("generic env beats config file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_TOKEN", "from-generic-env")
		path := writeConfigFile(t, `github_token = "from-file"`)

		cfg, err := Load(ctx, Options{Path: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "from-generic-env" {
			t.Errorf("Token = %q, want from-generic-env", cfg.Token)
		}
	})

	t.Run("config file beats saved session", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, `github_token = "from-file"`)
		sessions := &fakeSessions{sess: &session.Session{AccessToken: "from-session"}}

		cfg, err := Load(ctx, Options{Path: path, Sessions: sessions})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "from-file" {
			t.Errorf("Token = %q, want from-file", cfg.Token)
		}
	})

	t.Run("saved session is the last resort", func(t *testing.T) {
		clearEnv(t)
		sessions := &fakeSessions{sess: &session.Session{AccessToken: "from-session"}}

		cfg, err := Load(ctx, Options{Path: missingPath(t), Sessions: sessions})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "from-session" {
			t.Errorf("Token = %q, want from-session", cfg.Token)
		}
	})

	t.Run("no source leaves token empty", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(ctx, Options{Path: missingPath(t)})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Token != "" {
			t.Errorf("Token = %q, want empty", cfg.Token)
		}
	})
}

func TestLoadTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("flag wins", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, `timeout = "10s"`)
		cfg, err := Load(ctx, Options{FlagTimeout: 5 * time.Second, Path: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
	})

	t.Run("file value parsed", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, `timeout = "10s"`)
		cfg, err := Load(ctx, Options{Path: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
	})

	t.Run("invalid file value is a config error", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, `timeout = "not-a-duration"`)
		if _, err := Load(ctx, Options{Path: path}); err == nil {
			t.Fatal("expected error for invalid timeout")
		}
	})

	t.Run("defaults to the transport default", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(ctx, Options{Path: missingPath(t)})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Timeout != integrations.DefaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, integrations.DefaultTimeout)
		}
	})
}

func TestLoadEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("env override", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOFUND_GITHUB_ENDPOINT", "http://localhost:9999/graphql")
		cfg, err := Load(ctx, Options{Path: missingPath(t)})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Endpoint != "http://localhost:9999/graphql" {
			t.Errorf("Endpoint = %q", cfg.Endpoint)
		}
	})

	t.Run("file value", func(t *testing.T) {
		clearEnv(t)
		path := writeConfigFile(t, `endpoint = "http://localhost:8888/graphql"`)
		cfg, err := Load(ctx, Options{Path: path})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Endpoint != "http://localhost:8888/graphql" {
			t.Errorf("Endpoint = %q", cfg.Endpoint)
		}
	})
}

func TestLoadBadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `github_token = [not toml`)
	if _, err := Load(context.Background(), Options{Path: path}); err == nil {
		t.Fatal("expected error for unparseable config file")
	}
}
