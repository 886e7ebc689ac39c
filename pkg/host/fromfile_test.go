package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/figscan/pkg/figma"
)

// --- helpers ---

func sampleFile() *figma.File {
	return &figma.File{
		Key:  "f1",
		Name: "Design System",
		Document: &figma.Node{
			ID: "0:0", Name: "Document", Type: figma.TypeDocument,
			Children: []*figma.Node{
				{
					ID: "0:1", Name: "Page 1", Type: figma.TypePage,
					Children: []*figma.Node{
						{ID: "1:1", Name: "Button", Type: figma.TypeComponent},
						{
							ID: "2:1", Name: "Header", Type: figma.TypeFrame,
							Children: []*figma.Node{
								{
									ID: "2:2", Name: "Button", Type: figma.TypeInstance,
									ComponentID:       "1:1",
									VariantProperties: map[string]string{"State": "Hover"},
								},
							},
						},
						{ID: "3:1", Name: "LibCard", Type: figma.TypeInstance, ComponentID: "9:9"},
						{ID: "4:1", Name: "Vector", Type: "VECTOR"},
					},
				},
				{ID: "5:0", Name: "Floating", Type: figma.TypeFrame},
			},
		},
		Components: map[string]figma.ComponentMeta{
			"1:1": {Key: "btn-key", Name: "Button"},
			"9:9": {Key: "card-key", Name: "LibCard", Remote: true},
		},
	}
}

// --- FromFile ---

func TestFromFile_LiftsPagesOnly(t *testing.T) {
	doc := FromFile(sampleFile())

	assert.Equal(t, "Design System", doc.Name())
	assert.Equal(t, "f1", doc.Key())
	// The top-level frame outside any page is dropped.
	require.Len(t, doc.PageNodes, 1)
	assert.Equal(t, KindPage, doc.PageNodes[0].NodeKind)
}

func TestFromFile_ResolvesLocalInstance(t *testing.T) {
	doc := FromFile(sampleFile())
	header := doc.PageNodes[0].Kids[1]
	require.Equal(t, KindContainer, header.NodeKind)

	inst := header.Kids[0]
	require.Equal(t, KindInstance, inst.NodeKind)
	require.NotNil(t, inst.Main)
	assert.Equal(t, "1:1", inst.Main.StableID)
	assert.Equal(t, "btn-key", inst.Main.ContentKey)
	assert.False(t, inst.Main.Remote)
	assert.Equal(t, "f1", inst.Main.FileKey)
	assert.Equal(t, map[string]string{"State": "Hover"}, inst.Axes)
}

func TestFromFile_RemoteInstanceHasNoLocalFileKey(t *testing.T) {
	doc := FromFile(sampleFile())
	inst := doc.PageNodes[0].Kids[2]
	require.Equal(t, KindInstance, inst.NodeKind)
	require.NotNil(t, inst.Main)
	assert.True(t, inst.Main.Remote)
	assert.Empty(t, inst.Main.FileKey)
}

func TestFromFile_ComponentDefFromManifest(t *testing.T) {
	doc := FromFile(sampleFile())
	def := doc.PageNodes[0].Kids[0]
	require.Equal(t, KindComponentDef, def.NodeKind)
	require.NotNil(t, def.Def)
	assert.Equal(t, "1:1", def.Def.StableID)
	assert.Equal(t, "btn-key", def.Def.ContentKey)
	assert.Equal(t, "f1", def.Def.FileKey)
}

func TestFromFile_UnknownTypeIsOther(t *testing.T) {
	doc := FromFile(sampleFile())
	assert.Equal(t, KindOther, doc.PageNodes[0].Kids[3].NodeKind)
}

func TestFromFile_NilDocument(t *testing.T) {
	doc := FromFile(&figma.File{Key: "f1", Name: "Empty"})
	assert.Empty(t, doc.PageNodes)
}

// --- FindComponentDef ---

func TestFindComponentDef_ByID(t *testing.T) {
	doc := FromFile(sampleFile())
	n := FindComponentDef(doc, "1:1", "")
	require.NotNil(t, n)
	assert.Equal(t, "Button", n.NodeName)
}

func TestFindComponentDef_ByName(t *testing.T) {
	doc := FromFile(sampleFile())
	n := FindComponentDef(doc, "", "Button")
	require.NotNil(t, n)
	assert.Equal(t, "1:1", n.NodeID)
}

func TestFindComponentDef_IDTakesPrecedence(t *testing.T) {
	doc := FromFile(sampleFile())
	// A wrong id with a right name must not match.
	assert.Nil(t, FindComponentDef(doc, "no-such", "Button"))
}

func TestFindComponentDef_NoMatch(t *testing.T) {
	doc := FromFile(sampleFile())
	assert.Nil(t, FindComponentDef(doc, "", "Missing"))
	assert.Nil(t, FindComponentDef(doc, "", ""))
}

// --- Kind ---

func TestKindString(t *testing.T) {
	assert.Equal(t, "page", KindPage.String())
	assert.Equal(t, "instance", KindInstance.String())
	assert.Equal(t, "component", KindComponentDef.String())
}
