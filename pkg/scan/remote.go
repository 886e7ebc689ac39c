package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/time/rate"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/identity"
)

type fetchResult struct {
	key  string
	file *figma.File
	err  error
}

// runFileList processes file keys in batches: each batch is fetched
// concurrently, then every fetched file is traversed sequentially in
// file-list order. Batch concurrency affects fetch latency only; record
// emission order follows the file list. A fresh identity index is built per
// file, and a single bad file never aborts the scan.
func (o *Orchestrator) runFileList(ctx context.Context, sess *Session, keys []string) error {
	sess.State = StateScanning

	limiter := rate.NewLimiter(rate.Every(o.cfg.BatchDelay), 1)
	total := len(keys)
	done := 0

	for start := 0; start < len(keys); start += o.cfg.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		end := start + o.cfg.BatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		o.notify(Progress{
			Stage:      StageFetching,
			Message:    fmt.Sprintf("fetching %d files", len(batch)),
			FilesDone:  done,
			FilesTotal: total,
			Found:      len(sess.Records),
			Skipped:    sess.FilesSkipped,
		})

		results := o.fetchBatch(ctx, batch)

		for _, res := range results {
			// Once cancellation is observed, remaining fetched results
			// are discarded rather than traversed.
			if err := ctx.Err(); err != nil {
				return err
			}
			done++

			if res.err != nil {
				reason := figma.ClassifySkip(res.err)
				sess.addSkip(reason)
				o.log.Warn("file skipped",
					"file_key", res.key,
					"reason", string(reason),
					"error", res.err)
				continue
			}

			if err := o.scanRemoteFile(ctx, sess, res.file); err != nil {
				return err
			}

			o.notify(Progress{
				Stage:      StageScanning,
				Message:    fmt.Sprintf("scanned file %q", res.file.Name),
				FilesDone:  done,
				FilesTotal: total,
				Found:      len(sess.Records),
				Skipped:    sess.FilesSkipped,
			})
		}
	}

	return nil
}

// fetchBatch fetches a batch of files concurrently, each under its own
// per-file timeout. Results keep file-list order regardless of completion
// order.
func (o *Orchestrator) fetchBatch(ctx context.Context, keys []string) []fetchResult {
	results := make([]fetchResult, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, o.cfg.FileTimeout)
			defer cancel()
			file, err := o.client.FetchFile(fctx, key)
			results[i] = fetchResult{key: key, file: file, err: err}
		}(i, key)
	}
	wg.Wait()
	return results
}

// scanRemoteFile builds the file's identity index and traverses its pages
// under the per-file timeout. A timeout mid-traversal skips the remainder of
// the file; records already emitted stand.
func (o *Orchestrator) scanRemoteFile(ctx context.Context, sess *Session, file *figma.File) error {
	fctx, cancel := context.WithTimeout(ctx, o.cfg.FileTimeout)
	defer cancel()

	ix := identity.BuildIndex(file.Components)
	o.log.Debug("scanning file", "file_key", file.Key, "name", file.Name, "indexed_components", ix.Len())

	for _, page := range file.Document.Children {
		if page.Type != figma.TypePage {
			continue
		}
		if _, err := o.walker.WalkRemotePage(fctx, file, page, sess.Target, ix, o.sink(sess)); err != nil {
			// Parent cancellation aborts the whole scan; a per-file
			// timeout only skips this file.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sess.addSkip(figma.ReasonTimeout)
			o.log.Warn("file skipped", "file_key", file.Key, "reason", string(figma.ReasonTimeout))
			return nil
		}
	}

	sess.FilesScanned++
	return nil
}

// filterFiles applies the include/exclude globs to discovered file names and
// returns the surviving keys in listing order.
func (o *Orchestrator) filterFiles(files []figma.ProjectFile) ([]string, error) {
	for _, pattern := range o.cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range o.cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		if matchAny(o.cfg.Exclude, f.Name) {
			continue
		}
		if len(o.cfg.Include) > 0 && !matchAny(o.cfg.Include, f.Name) {
			continue
		}
		keys = append(keys, f.Key)
	}
	return keys, nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
