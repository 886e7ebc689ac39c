// Package host models the design-tool document tree the scanner consumes.
// The tree is an external, read-only data source; this package defines the
// capability interfaces plus an in-memory implementation used by tests and
// by the adapter that lifts a fetched remote file into a live tree.
package host

import "context"

// Kind is the closed set of node kinds the scanner distinguishes. Capability
// checks on Kind replace ambient type narrowing: only KindInstance nodes
// resolve a main component, only KindComponentDef nodes carry a definition.
type Kind int

const (
	KindOther Kind = iota
	KindPage
	KindContainer
	KindInstance
	KindComponentDef
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindContainer:
		return "container"
	case KindInstance:
		return "instance"
	case KindComponentDef:
		return "component"
	default:
		return "other"
	}
}

// Component describes a component definition as seen from the host tree.
type Component struct {
	// StableID is unique within the file that defines the component.
	StableID string

	// ContentKey survives copies and library publishes; it is the
	// authoritative cross-file identity.
	ContentKey string

	// Name is the display name. Not unique.
	Name string

	// Remote is true when the component originates from an external library.
	Remote bool

	// FileKey is the origin file key when known, empty otherwise.
	FileKey string

	// VariantAxes holds variant axis key=value pairs, nil when the
	// component has no variants.
	VariantAxes map[string]string
}

// Node is the read-only view of one node in the host document tree.
type Node interface {
	ID() string
	Name() string
	Kind() Kind
	Children() []Node
}

// Instance is the extra capability of instance nodes. The host dereferences
// the instance to its backing definition, including remote library lookups.
type Instance interface {
	Node

	// MainComponent resolves the backing component definition.
	// Returns nil when the reference is broken.
	MainComponent() *Component

	// VariantAxes returns the instance's variant selection, nil if none.
	VariantAxes() map[string]string
}

// ComponentDef is the extra capability of component definition nodes.
type ComponentDef interface {
	Node

	// Definition returns the component descriptor for this node.
	Definition() *Component
}

// Document is the host document capability consumed by the orchestrator.
type Document interface {
	Name() string
	Key() string

	// Selection returns the nodes currently selected by the user.
	Selection() []Node

	// LoadAllPages makes every page's children accessible. Must be called
	// before traversing; page children are not guaranteed loaded otherwise.
	LoadAllPages(ctx context.Context) error

	// Pages returns the document's pages in order.
	Pages() []Node
}
