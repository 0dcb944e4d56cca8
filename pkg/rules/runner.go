package rules

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aiseeq/logcheck/pkg/core"
)

// Run analyzes files with every rule, spreading files over workers.
// Rules must be safe for concurrent AnalyzeFile calls. Findings come back
// sorted by location.
func Run(ctx context.Context, files []*core.FileContext, rules []Rule, workers int) (core.FindingList, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var (
		mu       sync.Mutex
		findings core.FindingList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, fc := range files {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var local []*core.Finding
			for _, rule := range rules {
				local = append(local, rule.AnalyzeFile(fc)...)
			}

			mu.Lock()
			findings = append(findings, local...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	findings.Sort()
	return findings, nil
}
