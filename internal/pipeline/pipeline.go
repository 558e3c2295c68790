// Package pipeline drives extraction over a documentation tree: page
// selection, naming, the optional cache and ordered emission.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jcdickinson/javadocfetch/internal/cas"
	"github.com/jcdickinson/javadocfetch/internal/docs"
	"github.com/jcdickinson/javadocfetch/internal/walk"
	"golang.org/x/sync/errgroup"
)

// RecordWriter receives encoded records in emission order.
type RecordWriter interface {
	WriteRaw(record json.RawMessage) error
}

type Options struct {
	Ext     string
	Naming  walk.Naming
	Workers int
	// Cache is optional; nil disables caching.
	Cache *cas.Store
}

// Summary counts the outcome of a run.
type Summary struct {
	Pages     int
	Skipped   int
	Records   int
	CacheHits int
}

type Pipeline struct {
	extractor *docs.Extractor
	opts      Options
}

func New(extractor *docs.Extractor, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{extractor: extractor, opts: opts}
}

type pageResult struct {
	records []json.RawMessage
	hit     bool
	err     error
}

// Run extracts every class page under root and writes the records to out
// in page discovery order. Pages that fail are logged and skipped; only a
// walk or write failure ends the run early.
func (p *Pipeline) Run(ctx context.Context, root string, out RecordWriter) (Summary, error) {
	start := time.Now()
	pages, err := walk.Collect(root, p.opts.Ext)
	if err != nil {
		return Summary{}, fmt.Errorf("collecting pages: %w", err)
	}
	slog.Info("extracting", "root", root, "pages", len(pages), "workers", p.opts.Workers, "policy", p.extractor.Policy().Name)

	var sum Summary
	emit := func(pg walk.Page, res pageResult) error {
		sum.Pages++
		if res.err != nil {
			sum.Skipped++
			slog.Warn("skipping page", "page", pg.RelPath, "error", res.err)
			return nil
		}
		if res.hit {
			sum.CacheHits++
		}
		for _, rec := range res.records {
			if err := out.WriteRaw(rec); err != nil {
				return err
			}
			sum.Records++
		}
		return nil
	}

	if p.opts.Workers == 1 {
		err = p.runSequential(ctx, pages, emit)
	} else {
		err = p.runParallel(ctx, pages, emit)
	}
	if err != nil {
		return sum, err
	}

	slog.Info("extraction complete", "pages", sum.Pages, "skipped", sum.Skipped, "records", sum.Records,
		"cache_hits", sum.CacheHits, "elapsed", time.Since(start).Round(time.Millisecond))
	return sum, nil
}

func (p *Pipeline) runSequential(ctx context.Context, pages []walk.Page, emit func(walk.Page, pageResult) error) error {
	for _, pg := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(pg, p.process(pg)); err != nil {
			return err
		}
	}
	return nil
}

// runParallel extracts up to Workers pages at once. Each page owns a
// result slot; the caller's goroutine drains the slots in order so output
// matches a sequential run.
func (p *Pipeline) runParallel(ctx context.Context, pages []walk.Page, emit func(walk.Page, pageResult) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]pageResult, len(pages))
	ready := make([]chan struct{}, len(pages))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	g := new(errgroup.Group)
	g.SetLimit(p.opts.Workers)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, pg := range pages {
			if ctx.Err() != nil {
				return
			}
			g.Go(func() error {
				slots[i] = p.process(pg)
				close(ready[i])
				return nil
			})
		}
	}()
	defer func() {
		cancel()
		<-launched
		g.Wait()
	}()

	for i, pg := range pages {
		select {
		case <-ready[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
		res := slots[i]
		slots[i] = pageResult{}
		if err := emit(pg, res); err != nil {
			return err
		}
	}
	return nil
}

// process extracts one page into encoded records.
func (p *Pipeline) process(pg walk.Page) pageResult {
	data, err := os.ReadFile(pg.AbsPath)
	if err != nil {
		return pageResult{err: err}
	}

	var page *docs.Page
	load := func() (*docs.Page, error) {
		if page != nil {
			return page, nil
		}
		var err error
		page, err = docs.LoadPage(bytes.NewReader(data), pg.RelPath)
		return page, err
	}

	// path naming needs no DOM, so cache hits skip parsing entirely
	if p.opts.Naming == walk.NamingSubtitle {
		if _, err := load(); err != nil {
			return pageResult{err: err}
		}
	}
	id, err := p.opts.Naming.Identify(pg.RelPath, page)
	if err != nil {
		return pageResult{err: err}
	}

	extract := func() ([]json.RawMessage, error) {
		page, err := load()
		if err != nil {
			return nil, err
		}
		return p.Extract(page, id)
	}

	if p.opts.Cache == nil {
		records, err := extract()
		return pageResult{records: records, err: err}
	}
	key := cas.Key(data, p.extractor.Policy().Fingerprint(), id)
	records, hit, err := p.opts.Cache.GetOrCompute(key, extract)
	return pageResult{records: records, hit: hit, err: err}
}

// Extract runs the extractor on a loaded page and encodes its records.
func (p *Pipeline) Extract(page *docs.Page, id docs.Identity) ([]json.RawMessage, error) {
	res, err := p.extractor.Extract(page, id)
	if err != nil {
		return nil, err
	}
	recs := res.Records()
	out := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		b, err := docs.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", id.QualifiedName, err)
		}
		out = append(out, b)
	}
	slog.Debug("extracted", "class", id.QualifiedName, "records", len(out))
	return out, nil
}
