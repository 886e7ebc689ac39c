package traverse

import (
	"sort"
	"strings"
	"time"
)

// OccurrenceKind classifies a detected usage.
type OccurrenceKind string

const (
	// KindDirect is a first-level instance directly under a page.
	KindDirect OccurrenceKind = "direct"
	// KindNested is reachable only through an intermediate container.
	KindNested OccurrenceKind = "nested"
	// KindRemote means the resolved main component lives in a different
	// file or library than the instance.
	KindRemote OccurrenceKind = "remote"
)

// Occurrence is one detected usage of the target component. Created once
// during traversal, immutable thereafter.
type Occurrence struct {
	FileName string         `json:"fileName"`
	FileKey  string         `json:"fileKey"`
	PageName string         `json:"pageName"`
	PageID   string         `json:"pageId"`
	NodeName string         `json:"nodeName"`
	NodeID   string         `json:"nodeId"`
	Kind     OccurrenceKind `json:"kind"`

	// Path is the breadcrumb of ancestor names from the traversal root to
	// this node, inclusive.
	Path []string `json:"path"`

	// Variant summarizes variant-axis key=value pairs, empty if the
	// component has no variants.
	Variant string `json:"variant,omitempty"`

	DiscoveredAt time.Time `json:"discoveredAt"`
}

// Sink receives occurrences in BFS (level) order as they are found.
type Sink func(Occurrence)

// VariantSignature renders variant axes as sorted "key=value" pairs joined
// with ", ". Returns "" for nil/empty axes so records stay null-equivalent
// for variant-less components.
func VariantSignature(axes map[string]string) string {
	if len(axes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(axes))
	for k := range axes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+axes[k])
	}
	return strings.Join(parts, ", ")
}
