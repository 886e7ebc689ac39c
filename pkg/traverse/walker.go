// Package traverse implements the breadth-first scan over a document tree.
// Two tree representations share the same algorithm: the live host tree
// (main components already resolved by the host) and the deserialized remote
// JSON tree (raw references resolved through a per-file identity index).
package traverse

import (
	"context"
	"runtime"
	"time"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/host"
	"github.com/gnana997/figscan/pkg/identity"
)

// DefaultYieldEvery is how many dequeues pass between cooperative yields.
// Not rate limiting; purely scheduler hygiene for long traversals.
const DefaultYieldEvery = 100

// Config controls walker behavior.
type Config struct {
	// YieldEvery overrides the cooperative yield cadence. 0 = default.
	YieldEvery int
}

// Walker runs queue-based BFS over one page at a time, emitting occurrences
// in level order. Trees are strict by construction, so no visited set is
// kept; breadcrumb depth is unbounded.
type Walker struct {
	resolver   *identity.Resolver
	yieldEvery int
	now        func() time.Time
}

// NewWalker creates a walker using the given resolver.
func NewWalker(resolver *identity.Resolver, cfg Config) *Walker {
	yieldEvery := cfg.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = DefaultYieldEvery
	}
	return &Walker{resolver: resolver, yieldEvery: yieldEvery, now: time.Now}
}

type hostItem struct {
	node host.Node
	path []string
}

// WalkPage scans one page of a live host tree. Returns the number of
// occurrences emitted. On cancellation the context error is returned and
// everything emitted so far stands; there is no rollback.
func (w *Walker) WalkPage(ctx context.Context, docName, docKey string, page host.Node, target identity.Target, sink Sink) (int, error) {
	found := 0
	pagePath := []string{page.Name()}

	queue := make([]hostItem, 0, len(page.Children()))
	for _, child := range page.Children() {
		queue = append(queue, hostItem{node: child, path: pagePath})
	}

	dequeues := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		item := queue[0]
		queue = queue[1:]
		dequeues++

		if inst, ok := item.node.(host.Instance); ok && item.node.Kind() == host.KindInstance {
			main := inst.MainComponent()
			if w.resolver.MatchResolved(target, main) {
				sink(Occurrence{
					FileName:     docName,
					FileKey:      docKey,
					PageName:     page.Name(),
					PageID:       page.ID(),
					NodeName:     item.node.Name(),
					NodeID:       item.node.ID(),
					Kind:         classify(item.path, mainIsRemote(main, docKey)),
					Path:         appendPath(item.path, item.node.Name()),
					Variant:      VariantSignature(inst.VariantAxes()),
					DiscoveredAt: w.now(),
				})
				found++
			}
		}

		for _, child := range item.node.Children() {
			queue = append(queue, hostItem{node: child, path: appendPath(item.path, item.node.Name())})
		}

		if dequeues%w.yieldEvery == 0 {
			runtime.Gosched()
		}
	}

	return found, nil
}

type remoteItem struct {
	node *figma.Node
	path []string
}

// WalkRemotePage scans one page of a deserialized remote file. Instance
// references are resolved through the per-file index built from the file's
// component manifest before traversal started.
func (w *Walker) WalkRemotePage(ctx context.Context, file *figma.File, page *figma.Node, target identity.Target, ix *identity.Index, sink Sink) (int, error) {
	found := 0
	pagePath := []string{page.Name}

	queue := make([]remoteItem, 0, len(page.Children))
	for _, child := range page.Children {
		queue = append(queue, remoteItem{node: child, path: pagePath})
	}

	dequeues := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		item := queue[0]
		queue = queue[1:]
		dequeues++

		if item.node.Type == figma.TypeInstance {
			if w.resolver.MatchRef(target, item.node.ComponentID, item.node.Name, ix) {
				sink(Occurrence{
					FileName:     file.Name,
					FileKey:      file.Key,
					PageName:     page.Name,
					PageID:       page.ID,
					NodeName:     item.node.Name,
					NodeID:       item.node.ID,
					Kind:         classify(item.path, refIsRemote(file, item.node.ComponentID)),
					Path:         appendPath(item.path, item.node.Name),
					Variant:      VariantSignature(item.node.VariantProperties),
					DiscoveredAt: w.now(),
				})
				found++
			}
		}

		if figma.IsContainerType(item.node.Type) {
			for _, child := range item.node.Children {
				queue = append(queue, remoteItem{node: child, path: appendPath(item.path, item.node.Name)})
			}
		}

		if dequeues%w.yieldEvery == 0 {
			runtime.Gosched()
		}
	}

	return found, nil
}

// classify derives the occurrence kind. Nesting wins over remoteness: an
// instance inside a container is nested even when its main component lives
// in another file.
func classify(path []string, remote bool) OccurrenceKind {
	if len(path) > 1 {
		return KindNested
	}
	if remote {
		return KindRemote
	}
	return KindDirect
}

func mainIsRemote(main *host.Component, docKey string) bool {
	if main == nil {
		return false
	}
	if main.Remote {
		return true
	}
	return main.FileKey != "" && docKey != "" && main.FileKey != docKey
}

func refIsRemote(file *figma.File, componentID string) bool {
	meta, ok := file.Components[componentID]
	return ok && meta.Remote
}

// appendPath copies the breadcrumb before extending it. Queue items share
// backing arrays otherwise, and sibling enqueues would clobber each other.
func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
