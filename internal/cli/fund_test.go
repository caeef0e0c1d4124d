package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/gofund/pkg/config"
	"github.com/matzehuels/gofund/pkg/errors"
)

const fakeListOutput = `{
	"Path": "example.com/proj",
	"Main": true,
	"Dir": "/proj"
}
{
	"Path": "github.com/foo/bar",
	"Version": "v1.0.0"
}
`

// isolate points HOME at a temp dir so real config files and saved sessions
// cannot leak into the run, and blanks the credential environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOFUND_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GOFUND_GITHUB_ENDPOINT", "")
}

func fakeList(t *testing.T, output string) func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	t.Helper()
	return func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		return []byte(output), nil
	}
}

func TestRunFund(t *testing.T) {
	isolate(t)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// _0 = repo foo/bar, _1 = owner foo.
		fmt.Fprint(w, `{"data": {
			"_0": {"fundingLinks": [{"platform": "CUSTOM", "url": "https://example.com/donate"}]},
			"_1": {"sponsorsListing": null},
			"rateLimit": {"cost": 1, "remaining": 4999}
		}}`)
	}))
	defer server.Close()

	t.Setenv("GOFUND_GITHUB_TOKEN", "test-token")
	t.Setenv("GOFUND_GITHUB_ENDPOINT", server.URL)

	var out strings.Builder
	err := runFund(context.Background(), &out, fundOptions{exec: fakeList(t, fakeListOutput)})
	if err != nil {
		t.Fatalf("runFund: %v", err)
	}

	want := strings.Join([]string{
		"/proj (found funding links for 1 out of 1 dependencies)",
		"──── https://example.com/donate",
		"     └─ github.com/foo/bar v1.0.0",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("stdout mismatch:\ngot:\n%s\nwant:\n%s", out.String(), want)
	}
	if requests != 1 {
		t.Errorf("made %d API requests, want exactly 1", requests)
	}
}

func TestRunFundMissingToken(t *testing.T) {
	isolate(t)

	exec := func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		t.Error("go list ran despite missing credentials")
		return nil, nil
	}

	var out strings.Builder
	err := runFund(context.Background(), &out, fundOptions{exec: exec})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeConfig)
	}
	if got := errors.UserMessage(err); got != config.MissingTokenHelp {
		t.Errorf("user message = %q, want %q", got, config.MissingTokenHelp)
	}
	if out.String() != "" {
		t.Errorf("stdout should stay empty on preflight failure, got %q", out.String())
	}
}

func TestRunFundAuthFailure(t *testing.T) {
	isolate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	t.Setenv("GOFUND_GITHUB_TOKEN", "bad-token")
	t.Setenv("GOFUND_GITHUB_ENDPOINT", server.URL)

	var out strings.Builder
	err := runFund(context.Background(), &out, fundOptions{exec: fakeList(t, fakeListOutput)})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeAuth) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeAuth)
	}
	if out.String() != "" {
		t.Errorf("stdout should stay empty on fatal failure, got %q", out.String())
	}
}

func TestRunFundNoForgeDependencies(t *testing.T) {
	isolate(t)
	t.Setenv("GOFUND_GITHUB_TOKEN", "test-token")

	// No server configured: a module with no forge-hosted dependencies must
	// not make any network request.
	listOutput := `{"Path": "example.com/proj", "Main": true, "Dir": "/proj"}
{"Path": "gitlab.example.com/other/dep", "Version": "v2.0.0"}
`

	var out strings.Builder
	err := runFund(context.Background(), &out, fundOptions{exec: fakeList(t, listOutput)})
	if err != nil {
		t.Fatalf("runFund: %v", err)
	}

	want := "/proj (found funding links for 0 out of 1 dependencies)\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}
