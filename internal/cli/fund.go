package cli

import (
	"context"
	"io"

	"github.com/matzehuels/gofund/pkg/config"
	"github.com/matzehuels/gofund/pkg/errors"
	"github.com/matzehuels/gofund/pkg/funding"
	"github.com/matzehuels/gofund/pkg/gomod"
	"github.com/matzehuels/gofund/pkg/integrations/github"
	"github.com/matzehuels/gofund/pkg/session"
)

// runFund is the root command's pipeline: load credentials, list the module
// graph, extract funding sources, resolve them with one Github query, and
// render the grouped tree to out. Only the tree is written to out; all
// diagnostics go through the context logger on stderr.
func runFund(ctx context.Context, out io.Writer, opts fundOptions) error {
	logger := loggerFromContext(ctx)

	var sessions config.SessionTokens
	if store, err := session.NewCLIStore(); err == nil {
		sessions = store
	}

	cfg, err := config.Load(ctx, config.Options{
		FlagToken:   opts.Token,
		FlagTimeout: opts.Timeout,
		Sessions:    sessions,
	})
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return errors.New(errors.ErrCodeConfig, "%s", config.MissingTokenHelp)
	}

	loader := &gomod.Loader{Dir: opts.Dir, Exec: opts.exec}
	snap, err := loader.List(ctx)
	if err != nil {
		return err
	}

	sources, err := funding.CollectSources(snap.Packages())
	if err != nil {
		return errors.Wrap(errors.ErrCodeMetadata, err, "extract funding sources")
	}
	logger.Debugf("collected %d funding sources from %d modules", len(sources), len(snap.Modules))

	resolved := make(funding.ResolvedMap)
	if len(sources) > 0 {
		client := github.NewClient(github.Config{
			Token:    cfg.Token,
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
			Logf:     logger.Warnf,
			Debugf:   logger.Debugf,
		})
		p := newProgress(logger)
		if err := client.ResolveLinks(ctx, sources, resolved); err != nil {
			return err
		}
		p.done("queried Github funding links")
	}

	groups := funding.GroupByLinks(resolved)
	return funding.RenderTree(out, snap.Root, groups, len(resolved), snap.DependencyCount())
}
