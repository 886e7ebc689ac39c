// Package identity decides whether an instance node refers to the tracked
// component. The component and the instance may live in different files
// fetched independently, so the available identifiers are partial and
// inconsistent: a cross-file content key, a file-scoped stable id, a
// file-local node id, or only a display name.
package identity

import (
	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/host"
)

// Target is the component being tracked. Captured once at selection time and
// immutable for the duration of a scan.
//
// ContentKey is the authoritative cross-file identity. StableID is
// authoritative only within its origin file. DisplayName is a last-resort,
// low-confidence signal.
type Target struct {
	StableID    string `json:"stableId"`
	ContentKey  string `json:"contentKey"`
	DisplayName string `json:"displayName"`
	Remote      bool   `json:"isRemote"`
	FileKey     string `json:"fileKey,omitempty"`
}

// TargetFromComponent captures a host component definition as a scan target.
func TargetFromComponent(c *host.Component) Target {
	return Target{
		StableID:    c.StableID,
		ContentKey:  c.ContentKey,
		DisplayName: c.Name,
		Remote:      c.Remote,
		FileKey:     c.FileKey,
	}
}

// Index is the per-file bidirectional map between content keys and file-local
// node ids, built from one file's component manifest. Scoped to scanning that
// single file; rebuilt, never merged, for each new file.
type Index struct {
	keyToNode map[string]string
	nodeToKey map[string]string
}

// BuildIndex creates an Index from a file's component manifest
// (file-local node id -> component meta).
func BuildIndex(manifest map[string]figma.ComponentMeta) *Index {
	ix := &Index{
		keyToNode: make(map[string]string, len(manifest)),
		nodeToKey: make(map[string]string, len(manifest)),
	}
	for nodeID, meta := range manifest {
		if meta.Key == "" {
			continue
		}
		ix.keyToNode[meta.Key] = nodeID
		ix.nodeToKey[nodeID] = meta.Key
	}
	return ix
}

// NodeIDForKey returns the file-local node id for a content key.
func (ix *Index) NodeIDForKey(key string) (string, bool) {
	if ix == nil || key == "" {
		return "", false
	}
	id, ok := ix.keyToNode[key]
	return id, ok
}

// KeyForNodeID returns the content key for a file-local node id.
func (ix *Index) KeyForNodeID(nodeID string) (string, bool) {
	if ix == nil || nodeID == "" {
		return "", false
	}
	key, ok := ix.nodeToKey[nodeID]
	return key, ok
}

// Len returns the number of indexed components.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.nodeToKey)
}

// Config controls resolver behavior.
type Config struct {
	// AllowNameFallback enables the display-name strategy. It produces
	// false positives whenever two unrelated components share a name, but
	// some cross-file copies lose stable references entirely, so it is on
	// by default. Disable to require reference-based matches only.
	AllowNameFallback bool
}

// DefaultConfig returns the resolver defaults (name fallback enabled).
func DefaultConfig() Config {
	return Config{AllowNameFallback: true}
}

// Resolver is a pure decision function over a target, a candidate instance's
// reference data, and the per-file index built before traversal starts.
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver with the given config.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// MatchResolved decides a live-tree candidate whose main component the host
// has already dereferenced (including remote library lookups). High
// confidence: stable id or content key equality.
func (r *Resolver) MatchResolved(t Target, main *host.Component) bool {
	if main == nil {
		return false
	}
	if main.StableID != "" && main.StableID == t.StableID {
		return true
	}
	if main.ContentKey != "" && main.ContentKey == t.ContentKey {
		return true
	}
	return false
}

// MatchRef decides a remote-JSON candidate given only the raw main-component
// reference embedded in the serialized instance node. Strategies are tried in
// order, first match wins:
//
//  1. raw reference equals the target's content key (library match)
//  2. raw reference equals the target's stable id (same-file match)
//  3. raw reference equals the file-local node id the index maps the
//     target's content key to (target defined locally in this file)
//  4. the index maps the raw reference back to the target's content key
//  5. the instance's display name equals the target's (lowest confidence,
//     see Config.AllowNameFallback)
func (r *Resolver) MatchRef(t Target, rawRef, nodeName string, ix *Index) bool {
	if rawRef != "" && rawRef == t.ContentKey {
		return true
	}
	if rawRef != "" && rawRef == t.StableID {
		return true
	}
	if localID, ok := ix.NodeIDForKey(t.ContentKey); ok && rawRef == localID {
		return true
	}
	if key, ok := ix.KeyForNodeID(rawRef); ok && key == t.ContentKey {
		return true
	}
	if r.cfg.AllowNameFallback && nodeName != "" && nodeName == t.DisplayName {
		return true
	}
	return false
}
