// Package scan sequences component-usage scans: local host-tree scans,
// explicit-file-list scans, and whole-project scans over a discovered file
// list. The orchestrator owns per-scan lifecycle state, aggregates emitted
// records, drives progress reporting, and enforces per-file timeout and
// partial-failure skip semantics.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/host"
	"github.com/gnana997/figscan/pkg/identity"
	"github.com/gnana997/figscan/pkg/traverse"
)

// Defaults for the orchestrator tuning knobs.
const (
	// DefaultBatchSize is how many remote files are fetched concurrently.
	DefaultBatchSize = 20
	// DefaultFileTimeout bounds fetch and traversal of a single file.
	DefaultFileTimeout = 45 * time.Second
	// DefaultBatchDelay paces consecutive batches to stay clear of
	// upstream rate limits.
	DefaultBatchDelay = 75 * time.Millisecond
	// DefaultProgressEvery emits a progress event at least every N newly
	// found occurrences within one traversal.
	DefaultProgressEvery = 10
	// DefaultProgressBuffer is the progress channel capacity.
	DefaultProgressBuffer = 64
)

// Config controls orchestrator behavior. Zero values select the defaults.
type Config struct {
	BatchSize      int
	FileTimeout    time.Duration
	BatchDelay     time.Duration
	ProgressEvery  int
	ProgressBuffer int
	YieldEvery     int

	// Include and Exclude are doublestar globs applied to file names when
	// scanning a whole project. Empty Include means all files.
	Include []string
	Exclude []string

	// Resolver configures identity matching (name fallback etc).
	Resolver identity.Config

	// Logger for scan diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Orchestrator runs scans. At most one scan is active per orchestrator,
// enforced by its own state rather than a global.
type Orchestrator struct {
	client   *figma.Client
	cfg      Config
	walker   *traverse.Walker
	log      *slog.Logger
	progress chan Progress

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates an orchestrator. The figma client may be nil when only local
// scans will be run.
func New(client *figma.Client, cfg Config) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = DefaultFileTimeout
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = DefaultBatchDelay
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	if cfg.ProgressBuffer <= 0 {
		cfg.ProgressBuffer = DefaultProgressBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	resolver := identity.NewResolver(cfg.Resolver)
	return &Orchestrator{
		client:   client,
		cfg:      cfg,
		walker:   traverse.NewWalker(resolver, traverse.Config{YieldEvery: cfg.YieldEvery}),
		log:      cfg.Logger.With(slog.String("component", "scan")),
		progress: make(chan Progress, cfg.ProgressBuffer),
	}
}

// Progress returns the best-effort progress event channel. Events are
// dropped when the receiver falls behind; the channel is never closed.
func (o *Orchestrator) Progress() <-chan Progress { return o.progress }

// Cancel requests cancellation of the active scan. Calling it with no scan
// running, or after completion, is a no-op.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// SelectTarget validates the host selection and captures it as a scan
// target. Picking an instance and picking a non-component are both
// validation failures but report differently.
func SelectTarget(doc host.Document) (identity.Target, error) {
	sel := doc.Selection()
	if len(sel) == 0 {
		return identity.Target{}, ErrNoSelection
	}
	node := sel[0]
	switch node.Kind() {
	case host.KindComponentDef:
		def, ok := node.(host.ComponentDef)
		if !ok || def.Definition() == nil {
			return identity.Target{}, ErrSelectionNotComponent
		}
		return identity.TargetFromComponent(def.Definition()), nil
	case host.KindInstance:
		return identity.Target{}, ErrSelectionIsInstance
	default:
		return identity.Target{}, ErrSelectionNotComponent
	}
}

// ScanLocal scans every page of the host document for usages of the
// currently selected component.
func (o *Orchestrator) ScanLocal(ctx context.Context, doc host.Document) (*Session, error) {
	target, err := SelectTarget(doc)
	if err != nil {
		return nil, err
	}
	return o.ScanLocalTarget(ctx, doc, target)
}

// ScanLocalTarget scans the host document for usages of an already captured
// target.
func (o *Orchestrator) ScanLocalTarget(ctx context.Context, doc host.Document, target identity.Target) (*Session, error) {
	sctx, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer o.finish()

	sess := NewSession(target, ScopeLocal)
	o.log.Info("scan started", "session", sess.ID, "scope", string(sess.Scope), "target", target.DisplayName)
	o.notify(Progress{Stage: StageInitializing, Message: "preparing local scan"})

	return o.finalize(sess, o.runLocal(sctx, sess, doc))
}

// ScanFiles scans an explicit list of remote file keys.
func (o *Orchestrator) ScanFiles(ctx context.Context, target identity.Target, fileKeys []string) (*Session, error) {
	if o.client == nil || !o.client.HasToken() {
		return nil, ErrMissingToken
	}
	if len(fileKeys) == 0 {
		return nil, ErrNoFiles
	}

	sctx, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer o.finish()

	sess := NewSession(target, ScopeFileList)
	o.log.Info("scan started", "session", sess.ID, "scope", string(sess.Scope), "files", len(fileKeys))
	o.notify(Progress{Stage: StageInitializing, Message: fmt.Sprintf("scanning %d files", len(fileKeys))})

	return o.finalize(sess, o.runFileList(sctx, sess, fileKeys))
}

// ScanProject discovers a project's files and scans them all.
func (o *Orchestrator) ScanProject(ctx context.Context, target identity.Target, projectID string) (*Session, error) {
	if o.client == nil || !o.client.HasToken() {
		return nil, ErrMissingToken
	}
	if projectID == "" {
		return nil, ErrNoFiles
	}

	sctx, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer o.finish()

	sess := NewSession(target, ScopeProject)
	o.log.Info("scan started", "session", sess.ID, "scope", string(sess.Scope), "project", projectID)
	o.notify(Progress{Stage: StageListingFiles, Message: "listing project files"})

	files, err := o.client.ListProjectFiles(sctx, projectID)
	if err != nil {
		return o.finalize(sess, err)
	}
	keys, err := o.filterFiles(files)
	if err != nil {
		return o.finalize(sess, err)
	}
	if len(keys) == 0 {
		return o.finalize(sess, ErrNoFiles)
	}

	return o.finalize(sess, o.runFileList(sctx, sess, keys))
}

// begin claims the single-scan slot and derives the cancellable scan context.
func (o *Orchestrator) begin(ctx context.Context) (context.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return nil, ErrScanInProgress
	}
	sctx, cancel := context.WithCancel(ctx)
	o.running = true
	o.cancel = cancel
	return sctx, nil
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.running = false
}

// finalize transitions the session to its terminal state. Cancellation is
// not an error: the session becomes a valid partial result.
func (o *Orchestrator) finalize(sess *Session, err error) (*Session, error) {
	sess.DurationMs = time.Since(sess.StartedAt).Milliseconds()

	switch {
	case err == nil:
		sess.State = StateComplete
		o.notify(Progress{
			Stage:   StageComplete,
			Message: fmt.Sprintf("scan complete: %d instances found", len(sess.Records)),
			Found:   len(sess.Records),
			Skipped: sess.FilesSkipped,
		})
		o.log.Info("scan complete",
			"session", sess.ID,
			"found", len(sess.Records),
			"files_scanned", sess.FilesScanned,
			"files_skipped", sess.FilesSkipped,
			"duration_ms", sess.DurationMs)
		return sess, nil

	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		sess.State = StateAborted
		sess.Cancelled = true
		o.notify(Progress{
			Stage:   StageAborted,
			Message: fmt.Sprintf("scan cancelled: %d instances kept", len(sess.Records)),
			Found:   len(sess.Records),
			Skipped: sess.FilesSkipped,
		})
		o.log.Info("scan aborted", "session", sess.ID, "found", len(sess.Records))
		return sess, nil

	default:
		sess.State = StateFailed
		sess.Error = err.Error()
		o.notify(Progress{Stage: StageFailed, Message: err.Error(), Found: len(sess.Records)})
		o.log.Error("scan failed", "session", sess.ID, "error", err)
		return sess, err
	}
}

func (o *Orchestrator) runLocal(ctx context.Context, sess *Session, doc host.Document) error {
	o.notify(Progress{Stage: StageLoadingPages, Message: "loading pages"})
	if err := doc.LoadAllPages(ctx); err != nil {
		return fmt.Errorf("loading pages: %w", err)
	}

	pages := doc.Pages()
	sess.State = StateScanning

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := o.walker.WalkPage(ctx, doc.Name(), doc.Key(), page, sess.Target, o.sink(sess)); err != nil {
			return err
		}
		o.notify(Progress{
			Stage:      StageScanning,
			Message:    fmt.Sprintf("scanned page %q", page.Name()),
			PagesDone:  i + 1,
			PagesTotal: len(pages),
			Found:      len(sess.Records),
		})
	}

	sess.FilesScanned = 1
	return nil
}

// sink appends records to the session and emits throttled progress. Only the
// traversal machinery appends to Records; the presentation layer never does.
func (o *Orchestrator) sink(sess *Session) traverse.Sink {
	return func(rec traverse.Occurrence) {
		sess.Records = append(sess.Records, rec)
		if len(sess.Records)%o.cfg.ProgressEvery == 0 {
			o.notify(Progress{
				Stage:   StageScanning,
				Message: fmt.Sprintf("%d instances found", len(sess.Records)),
				Found:   len(sess.Records),
				Skipped: sess.FilesSkipped,
			})
		}
	}
}

// notify sends a progress event without blocking, dropping it if the
// receiver is gone or behind.
func (o *Orchestrator) notify(p Progress) {
	select {
	case o.progress <- p:
	default:
	}
}
