package traverse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/host"
	"github.com/gnana997/figscan/pkg/identity"
)

// --- helpers ---

var buttonMain = &host.Component{StableID: "1:1", ContentKey: "btn-key", Name: "Button"}

func buttonTarget() identity.Target {
	return identity.TargetFromComponent(buttonMain)
}

func newTestWalker() *Walker {
	return NewWalker(identity.NewResolver(identity.DefaultConfig()), Config{})
}

func collect(sink *[]Occurrence) Sink {
	return func(o Occurrence) { *sink = append(*sink, o) }
}

// --- WalkPage (live host tree) ---

func TestWalkPage_EmitsInLevelOrder(t *testing.T) {
	// instA sits inside a container that is enqueued before instB, but BFS
	// drains the page's direct children first, so instB is emitted first.
	page := host.NewPage("0:1", "Page 1",
		host.NewContainer("2:1", "Header",
			host.NewInstance("2:2", "Button", buttonMain),
		),
		host.NewInstance("3:1", "Button", buttonMain),
	)

	var got []Occurrence
	found, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, buttonTarget(), collect(&got))
	require.NoError(t, err)
	require.Equal(t, 2, found)
	require.Len(t, got, 2)

	assert.Equal(t, "3:1", got[0].NodeID)
	assert.Equal(t, "2:2", got[1].NodeID)
}

func TestWalkPage_ClassifiesDirectAndNested(t *testing.T) {
	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "Button", buttonMain),
		host.NewContainer("2:1", "Header",
			host.NewInstance("2:2", "Button", buttonMain),
		),
	)

	var got []Occurrence
	_, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, buttonTarget(), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, KindDirect, got[0].Kind)
	assert.Equal(t, []string{"Page 1", "Button"}, got[0].Path)

	assert.Equal(t, KindNested, got[1].Kind)
	assert.Equal(t, []string{"Page 1", "Header", "Button"}, got[1].Path)
}

func TestWalkPage_RemoteMainAtPageLevel(t *testing.T) {
	remote := &host.Component{StableID: "9:9", ContentKey: "lib-key", Name: "LibButton", Remote: true}
	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "LibButton", remote),
	)

	var got []Occurrence
	_, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, identity.TargetFromComponent(remote), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindRemote, got[0].Kind)
}

func TestWalkPage_NestingWinsOverRemoteness(t *testing.T) {
	remote := &host.Component{ContentKey: "lib-key", Name: "LibButton", Remote: true}
	page := host.NewPage("0:1", "Page 1",
		host.NewContainer("2:1", "Header",
			host.NewInstance("2:2", "LibButton", remote),
		),
	)

	var got []Occurrence
	_, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, identity.TargetFromComponent(remote), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindNested, got[0].Kind)
}

func TestWalkPage_CrossFileMainCountsAsRemote(t *testing.T) {
	other := &host.Component{ContentKey: "other-key", Name: "Shared", FileKey: "f2"}
	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "Shared", other),
	)

	var got []Occurrence
	_, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, identity.TargetFromComponent(other), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindRemote, got[0].Kind)
}

func TestWalkPage_SkipsNonMatchingAndNonInstances(t *testing.T) {
	other := &host.Component{StableID: "5:5", ContentKey: "card-key", Name: "Card"}
	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "Card", other),
		host.NewComponentDef("4:1", "Button", buttonMain),
		host.NewOther("6:1", "Vector"),
	)

	var got []Occurrence
	found, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, buttonTarget(), collect(&got))
	require.NoError(t, err)
	assert.Equal(t, 0, found)
	assert.Empty(t, got)
}

func TestWalkPage_VariantSignatureOnOccurrence(t *testing.T) {
	inst := host.NewInstance("3:1", "Button", buttonMain)
	inst.Axes = map[string]string{"State": "Hover", "Size": "Large"}
	page := host.NewPage("0:1", "Page 1", inst)

	var got []Occurrence
	_, err := newTestWalker().WalkPage(context.Background(), "Design", "f1", page, buttonTarget(), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Size=Large, State=Hover", got[0].Variant)
}

func TestWalkPage_CancelledContextKeepsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "Button", buttonMain),
	)

	var got []Occurrence
	found, err := newTestWalker().WalkPage(ctx, "Design", "f1", page, buttonTarget(), collect(&got))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, found)
	assert.Empty(t, got)
}

// --- WalkRemotePage (deserialized remote tree) ---

func remoteFile() *figma.File {
	return &figma.File{
		Key:  "f1",
		Name: "Design",
		Components: map[string]figma.ComponentMeta{
			"1:1": {Key: "btn-key", Name: "Button"},
		},
	}
}

func TestWalkRemotePage_MatchesThroughIndex(t *testing.T) {
	file := remoteFile()
	ix := identity.BuildIndex(file.Components)
	page := &figma.Node{
		ID: "0:1", Name: "Page 1", Type: figma.TypePage,
		Children: []*figma.Node{
			// Refers to the target by its file-local node id.
			{ID: "3:1", Name: "Button", Type: figma.TypeInstance, ComponentID: "1:1"},
			{ID: "4:1", Name: "Card", Type: figma.TypeInstance, ComponentID: "5:5"},
		},
	}

	var got []Occurrence
	found, err := newTestWalker().WalkRemotePage(context.Background(), file, page, buttonTarget(), ix, collect(&got))
	require.NoError(t, err)
	require.Equal(t, 1, found)
	assert.Equal(t, "3:1", got[0].NodeID)
	assert.Equal(t, KindDirect, got[0].Kind)
	assert.Equal(t, "f1", got[0].FileKey)
}

func TestWalkRemotePage_RemoteManifestEntryClassifiesRemote(t *testing.T) {
	file := &figma.File{
		Key:  "f2",
		Name: "Consumer",
		Components: map[string]figma.ComponentMeta{
			"7:7": {Key: "btn-key", Name: "Button", Remote: true},
		},
	}
	ix := identity.BuildIndex(file.Components)
	page := &figma.Node{
		ID: "0:1", Name: "Page 1", Type: figma.TypePage,
		Children: []*figma.Node{
			{ID: "3:1", Name: "Button", Type: figma.TypeInstance, ComponentID: "7:7"},
		},
	}

	var got []Occurrence
	_, err := newTestWalker().WalkRemotePage(context.Background(), file, page, buttonTarget(), ix, collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindRemote, got[0].Kind)
}

func TestWalkRemotePage_DeepNestingBreadcrumb(t *testing.T) {
	file := remoteFile()
	ix := identity.BuildIndex(file.Components)
	page := &figma.Node{
		ID: "0:1", Name: "Page 1", Type: figma.TypePage,
		Children: []*figma.Node{
			{ID: "2:1", Name: "Screen", Type: figma.TypeFrame, Children: []*figma.Node{
				{ID: "2:2", Name: "Toolbar", Type: figma.TypeGroup, Children: []*figma.Node{
					{ID: "2:3", Name: "Button", Type: figma.TypeInstance, ComponentID: "btn-key"},
				}},
			}},
		},
	}

	var got []Occurrence
	_, err := newTestWalker().WalkRemotePage(context.Background(), file, page, buttonTarget(), ix, collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Page 1", "Screen", "Toolbar", "Button"}, got[0].Path)
	assert.Equal(t, KindNested, got[0].Kind)
}

func TestWalkRemotePage_DoesNotDescendIntoLeafTypes(t *testing.T) {
	file := remoteFile()
	ix := identity.BuildIndex(file.Components)
	// A matching instance hidden under a VECTOR must stay invisible: vector
	// children are render internals, not document structure.
	page := &figma.Node{
		ID: "0:1", Name: "Page 1", Type: figma.TypePage,
		Children: []*figma.Node{
			{ID: "6:1", Name: "Illustration", Type: "VECTOR", Children: []*figma.Node{
				{ID: "6:2", Name: "Button", Type: figma.TypeInstance, ComponentID: "btn-key"},
			}},
		},
	}

	var got []Occurrence
	found, err := newTestWalker().WalkRemotePage(context.Background(), file, page, buttonTarget(), ix, collect(&got))
	require.NoError(t, err)
	assert.Equal(t, 0, found)
	assert.Empty(t, got)
}

// --- VariantSignature ---

func TestVariantSignature(t *testing.T) {
	assert.Equal(t, "", VariantSignature(nil))
	assert.Equal(t, "", VariantSignature(map[string]string{}))
	assert.Equal(t, "State=Hover", VariantSignature(map[string]string{"State": "Hover"}))
	assert.Equal(t, "Size=Large, State=Hover",
		VariantSignature(map[string]string{"State": "Hover", "Size": "Large"}))
}

// --- timestamps ---

func TestWalkPage_StampsDiscoveryTime(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	w := newTestWalker()
	w.now = func() time.Time { return fixed }

	page := host.NewPage("0:1", "Page 1",
		host.NewInstance("3:1", "Button", buttonMain),
	)

	var got []Occurrence
	_, err := w.WalkPage(context.Background(), "Design", "f1", page, buttonTarget(), collect(&got))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fixed, got[0].DiscoveredAt)
}
