// Package gomod obtains the dependency graph of a Go module by shelling out
// to the go tool, the same way the rest of the toolchain would see it.
//
// The graph is the flat build list from `go list -m -json all`: every module
// that participates in the build, with the main (workspace) modules flagged
// so the resolution engine can exclude them.
package gomod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"

	gofunderr "github.com/matzehuels/gofund/pkg/errors"
	"github.com/matzehuels/gofund/pkg/funding"
)

// Module is one entry of the `go list -m -json all` output stream.
type Module struct {
	Path     string
	Version  string
	Main     bool
	Indirect bool
	Dir      string
}

// Snapshot is the dependency graph of one module as of one run.
type Snapshot struct {
	Root    string   // main module directory, or its path when unknown
	Modules []Module // full build list, main modules included
}

// Executor runs a command and returns its stdout. It exists so tests can
// substitute canned go tool output.
type Executor func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func defaultExecutor(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// Loader lists the modules of the Go module rooted at Dir.
type Loader struct {
	Dir  string   // working directory; empty means the current one
	Exec Executor // nil means run the real go tool
}

// List runs `go list -m -json all` and parses the JSON stream it prints.
func (l *Loader) List(ctx context.Context) (*Snapshot, error) {
	run := l.Exec
	if run == nil {
		run = defaultExecutor
	}

	out, err := run(ctx, l.Dir, "go", "list", "-m", "-json", "all")
	if err != nil {
		return nil, gofunderr.Wrap(gofunderr.ErrCodeMetadata, err, "run go list")
	}

	snap := &Snapshot{}
	dec := json.NewDecoder(bytes.NewReader(out))
	for {
		var m Module
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, gofunderr.Wrap(gofunderr.ErrCodeMetadata, err, "parse go list output")
		}
		if m.Main && snap.Root == "" {
			snap.Root = m.Dir
			if snap.Root == "" {
				snap.Root = m.Path
			}
		}
		snap.Modules = append(snap.Modules, m)
	}
	return snap, nil
}

// Packages converts the snapshot into the engine's package list. A module
// path doubles as the browsable repository URL for forge-hosted modules, so
// the repository URL is derived by prefixing the scheme; non-forge hosts
// fall out naturally during source extraction.
func (s *Snapshot) Packages() []funding.Package {
	pkgs := make([]funding.Package, 0, len(s.Modules))
	for _, m := range s.Modules {
		p := funding.Package{
			ID:        m.Path + "@" + m.Version,
			Name:      m.Path,
			Version:   m.Version,
			Workspace: m.Main,
		}
		if m.Path != "" {
			p.Repository = "https://" + m.Path
		}
		pkgs = append(pkgs, p)
	}
	return pkgs
}

// DependencyCount reports how many modules are dependencies, i.e. not part
// of the local workspace.
func (s *Snapshot) DependencyCount() int {
	n := 0
	for _, m := range s.Modules {
		if !m.Main {
			n++
		}
	}
	return n
}
