package host

import "github.com/gnana997/figscan/pkg/figma"

// FromFile lifts a fetched remote file into a live host tree. Instance nodes
// get their main component resolved through the file's component manifest, so
// the result behaves like a host-resolved document: live-tree traversal and
// identity matching work on it unchanged.
func FromFile(f *figma.File) *MemDocument {
	doc := &MemDocument{
		DocName: f.Name,
		DocKey:  f.Key,
	}
	if f.Document == nil {
		return doc
	}
	for _, child := range f.Document.Children {
		if child.Type == figma.TypePage {
			doc.PageNodes = append(doc.PageNodes, liftNode(child, f))
		}
	}
	return doc
}

func liftNode(n *figma.Node, f *figma.File) *MemNode {
	m := &MemNode{
		NodeID:   n.ID,
		NodeName: n.Name,
		NodeKind: kindOf(n.Type),
		Axes:     n.VariantProperties,
	}

	switch m.NodeKind {
	case KindInstance:
		if meta, ok := f.Components[n.ComponentID]; ok {
			fileKey := ""
			if !meta.Remote {
				fileKey = f.Key
			}
			m.Main = &Component{
				StableID:   n.ComponentID,
				ContentKey: meta.Key,
				Name:       meta.Name,
				Remote:     meta.Remote,
				FileKey:    fileKey,
			}
		}
	case KindComponentDef:
		def := &Component{
			StableID: n.ID,
			Name:     n.Name,
			FileKey:  f.Key,
		}
		if meta, ok := f.Components[n.ID]; ok {
			def.ContentKey = meta.Key
			def.Remote = meta.Remote
		}
		m.Def = def
	}

	for _, child := range n.Children {
		m.Kids = append(m.Kids, liftNode(child, f))
	}
	return m
}

// FindComponentDef locates a component definition node by stable id or, when
// id is empty, by display name. Returns nil when nothing matches.
func FindComponentDef(doc *MemDocument, stableID, name string) *MemNode {
	queue := make([]*MemNode, 0, len(doc.PageNodes))
	queue = append(queue, doc.PageNodes...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.NodeKind == KindComponentDef && n.Def != nil {
			if stableID != "" && n.Def.StableID == stableID {
				return n
			}
			if stableID == "" && name != "" && n.Def.Name == name {
				return n
			}
		}
		queue = append(queue, n.Kids...)
	}
	return nil
}

func kindOf(t string) Kind {
	switch t {
	case figma.TypePage:
		return KindPage
	case figma.TypeInstance:
		return KindInstance
	case figma.TypeComponent, figma.TypeComponentSet:
		return KindComponentDef
	case figma.TypeFrame, figma.TypeGroup, figma.TypeSection:
		return KindContainer
	default:
		return KindOther
	}
}
