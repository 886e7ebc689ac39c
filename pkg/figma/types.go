package figma

// Node is a single node of a Figma document tree as returned by the files API.
// The tree is dynamically typed on the wire; Type discriminates what the other
// fields mean. Children is nil for leaf nodes.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	// ComponentID is the raw main-component reference carried by INSTANCE
	// nodes. Depending on where the instance came from it may be a library
	// content key, a file-local node id, or stale.
	ComponentID string `json:"componentId,omitempty"`

	// VariantProperties holds variant axis key=value pairs when the instance
	// belongs to a component set. Nil when the component has no variants.
	VariantProperties map[string]string `json:"variantProperties,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Node type discriminators used by the files API.
const (
	TypeDocument     = "DOCUMENT"
	TypePage         = "CANVAS"
	TypeFrame        = "FRAME"
	TypeGroup        = "GROUP"
	TypeSection      = "SECTION"
	TypeInstance     = "INSTANCE"
	TypeComponent    = "COMPONENT"
	TypeComponentSet = "COMPONENT_SET"
)

// IsContainerType reports whether a node type can carry children worth
// descending into.
func IsContainerType(t string) bool {
	switch t {
	case TypeDocument, TypePage, TypeFrame, TypeGroup, TypeSection,
		TypeInstance, TypeComponent, TypeComponentSet:
		return true
	}
	return false
}

// ComponentMeta is one entry of a file's component manifest. The manifest is
// keyed by file-local node id; Key is the cross-file content key.
type ComponentMeta struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Remote bool   `json:"remote,omitempty"`
}

// File is a fetched Figma file: its document tree plus the component manifest
// needed to resolve instance references within that file.
type File struct {
	Key        string
	Name       string
	Document   *Node
	Components map[string]ComponentMeta // file-local node id -> meta
}

// ProjectFile is one entry from the project file listing.
type ProjectFile struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// fileResponse mirrors the GET /v1/files/:key payload (subset we consume).
type fileResponse struct {
	Name       string                   `json:"name"`
	Document   *Node                    `json:"document"`
	Components map[string]ComponentMeta `json:"components"`
}

// projectFilesResponse mirrors the GET /v1/projects/:id/files payload.
type projectFilesResponse struct {
	Name  string        `json:"name"`
	Files []ProjectFile `json:"files"`
}
