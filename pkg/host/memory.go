package host

import "context"

// MemNode is the in-memory Node implementation.
type MemNode struct {
	NodeID   string
	NodeName string
	NodeKind Kind
	Kids     []*MemNode

	// Main is the resolved main component for instance nodes.
	Main *Component

	// Def is the component descriptor for component definition nodes.
	Def *Component

	// Axes is the instance's variant selection.
	Axes map[string]string
}

var (
	_ Node         = (*MemNode)(nil)
	_ Instance     = (*MemNode)(nil)
	_ ComponentDef = (*MemNode)(nil)
)

func (n *MemNode) ID() string   { return n.NodeID }
func (n *MemNode) Name() string { return n.NodeName }
func (n *MemNode) Kind() Kind   { return n.NodeKind }

func (n *MemNode) Children() []Node {
	if len(n.Kids) == 0 {
		return nil
	}
	out := make([]Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

func (n *MemNode) MainComponent() *Component      { return n.Main }
func (n *MemNode) VariantAxes() map[string]string { return n.Axes }
func (n *MemNode) Definition() *Component         { return n.Def }

// NewPage creates a page node.
func NewPage(id, name string, kids ...*MemNode) *MemNode {
	return &MemNode{NodeID: id, NodeName: name, NodeKind: KindPage, Kids: kids}
}

// NewContainer creates a frame/group container node.
func NewContainer(id, name string, kids ...*MemNode) *MemNode {
	return &MemNode{NodeID: id, NodeName: name, NodeKind: KindContainer, Kids: kids}
}

// NewInstance creates an instance node resolved to the given main component.
func NewInstance(id, name string, main *Component, kids ...*MemNode) *MemNode {
	return &MemNode{NodeID: id, NodeName: name, NodeKind: KindInstance, Main: main, Kids: kids}
}

// NewComponentDef creates a component definition node.
func NewComponentDef(id, name string, def *Component, kids ...*MemNode) *MemNode {
	return &MemNode{NodeID: id, NodeName: name, NodeKind: KindComponentDef, Def: def, Kids: kids}
}

// NewOther creates a node of no scanner-relevant kind.
func NewOther(id, name string, kids ...*MemNode) *MemNode {
	return &MemNode{NodeID: id, NodeName: name, NodeKind: KindOther, Kids: kids}
}

// MemDocument is the in-memory Document implementation.
type MemDocument struct {
	DocName   string
	DocKey    string
	PageNodes []*MemNode
	Selected  []Node

	// LoadCalls counts LoadAllPages invocations so tests can assert the
	// explicit load precondition is honored.
	LoadCalls int

	// LoadErr, when set, is returned by LoadAllPages.
	LoadErr error
}

var _ Document = (*MemDocument)(nil)

func (d *MemDocument) Name() string      { return d.DocName }
func (d *MemDocument) Key() string       { return d.DocKey }
func (d *MemDocument) Selection() []Node { return d.Selected }

func (d *MemDocument) LoadAllPages(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.LoadCalls++
	return d.LoadErr
}

func (d *MemDocument) Pages() []Node {
	out := make([]Node, len(d.PageNodes))
	for i, p := range d.PageNodes {
		out[i] = p
	}
	return out
}
