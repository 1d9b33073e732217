// internal/engine/page_test.go
package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Ancillary-AGI/titan/internal/config"
	"github.com/Ancillary-AGI/titan/internal/css"
	"github.com/Ancillary-AGI/titan/internal/dom"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		ViewportWidth:    800,
		ViewportHeight:   600,
		StyleConcurrency: 4,
		UserAgentStyles:  true,
		DocumentStyles:   true,
	}
}

const demoMarkup = `<html>
<head>
  <title>Demo</title>
  <style>#hero { width: 100px; height: 40px; background-color: blue }</style>
</head>
<body><div id="hero" class="feature"></div></body>
</html>`

func TestPagePipeline(t *testing.T) {
	page := NewPage(testEngineConfig(), nil)
	require.NoError(t, page.LoadMarkupString(demoMarkup))
	require.NoError(t, page.Layout())

	heroID, ok := page.ElementByID("hero")
	require.True(t, ok)

	t.Run("document metadata", func(t *testing.T) {
		assert.Equal(t, "Demo", page.Title())
		assert.Len(t, page.ElementsByTag("div"), 1)
		assert.Len(t, page.ElementsByClass("feature"), 1)
		v, ok := page.Attr(heroID, "class")
		require.True(t, ok)
		assert.Equal(t, "feature", v)
	})

	t.Run("harvested document styles drive geometry", func(t *testing.T) {
		geo, ok := page.Geometry(heroID)
		require.True(t, ok)
		// The user agent sheet gives body an 8 unit margin.
		assert.Equal(t, 8.0, geo.Content.X)
		assert.Equal(t, 8.0, geo.Content.Y)
		assert.Equal(t, 100.0, geo.Content.Width)
		assert.Equal(t, 40.0, geo.Content.Height)
		assert.Equal(t, "div", geo.TagName)
	})

	t.Run("head subtree produces no boxes", func(t *testing.T) {
		head := page.Document().Head()
		require.NotEqual(t, dom.InvalidNode, head)
		_, ok := page.Box(head)
		assert.False(t, ok)
	})

	t.Run("hit test finds the deepest element", func(t *testing.T) {
		id, ok := page.HitTest(10, 10)
		require.True(t, ok)
		assert.Equal(t, heroID, id)
	})

	t.Run("inline style update recomputes the subtree", func(t *testing.T) {
		require.NoError(t, page.UpdateInlineStyle(heroID, "width: 60px"))
		geo, ok := page.Geometry(heroID)
		require.True(t, ok)
		assert.Equal(t, 60.0, geo.Content.Width)
		assert.Equal(t, 40.0, geo.Content.Height, "sheet height still applies under the inline width")
	})

	t.Run("dump covers every laid out box", func(t *testing.T) {
		dump, err := page.Dump()
		require.NoError(t, err)
		assert.Equal(t, page.ID.String(), dump.PageID)
		assert.Equal(t, "Demo", dump.Title)
		assert.Equal(t, 800.0, dump.ViewportWidth)
		assert.Equal(t, 600.0, dump.ViewportHeight)

		var tags []string
		for _, b := range dump.Boxes {
			tags = append(tags, b.TagName)
		}
		assert.Contains(t, tags, "html")
		assert.Contains(t, tags, "body")
		assert.Contains(t, tags, "div")
		assert.NotContains(t, tags, "head")
		assert.NotContains(t, tags, "style")
	})
}

func TestStyleSnapshot(t *testing.T) {
	page := NewPage(testEngineConfig(), nil)
	require.NoError(t, page.LoadMarkupString(demoMarkup))

	entries, err := page.StyleSnapshot(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	byTag := map[string]int{}
	var hero map[string]string
	for _, e := range entries {
		byTag[e.TagName]++
		if e.TagName == "div" {
			hero = e.Properties
		}
	}
	assert.Equal(t, 1, byTag["div"])
	assert.Equal(t, 1, byTag["body"])

	require.NotNil(t, hero)
	assert.Equal(t, "rgba(0, 0, 255, 255)", hero["background-color"])
	assert.Equal(t, "100px", hero["width"])
	assert.Equal(t, "block", hero["display"])

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := page.StyleSnapshot(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPageDiagnostics(t *testing.T) {
	page := NewPage(testEngineConfig(), nil)
	page.AddStylesheet(`div p { color: red } .ok { color: blue }`, css.OriginAuthor)

	diags := page.Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unsupported selector")
}

func TestPageOperationsBeforeLayout(t *testing.T) {
	page := NewPage(testEngineConfig(), nil)
	require.NoError(t, page.LoadMarkupString(`<html><body><div id="a"></div></body></html>`))

	_, ok := page.HitTest(1, 1)
	assert.False(t, ok)

	_, err := page.Dump()
	assert.Error(t, err)

	id, _ := page.ElementByID("a")
	assert.Error(t, page.UpdateInlineStyle(id, "width: 10px"))
}

func TestPagesAreIndependent(t *testing.T) {
	a := NewPage(testEngineConfig(), nil)
	b := NewPage(testEngineConfig(), nil)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.LoadMarkupString(`<html><body><p>x</p></body></html>`))
	require.NoError(t, b.LoadMarkupString(`<html><body><p>y</p></body></html>`))
	require.NoError(t, a.Layout())

	// Laying out one page never touches the other.
	_, ok := b.HitTest(1, 1)
	assert.False(t, ok)
}
