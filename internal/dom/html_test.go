package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<html><body>
<h2 data-x="1">Today</h2>
<div id="a"><p>one</p><!-- note --><p>two <b>bold</b></p></div>
text between
<div id="b"></div>
<span id="c">end</span>
</body></html>`

func mustParse(t *testing.T, s string) Node {
	t.Helper()
	root, err := ParseString(s)
	require.NoError(t, err)
	return root
}

func TestParse_RootElement(t *testing.T) {
	root := mustParse(t, sample)
	assert.Equal(t, "html", root.Tag())
	assert.Nil(t, root.Parent())
}

func TestAttr(t *testing.T) {
	root := mustParse(t, sample)
	h2 := Find(root, Tag("h2"))
	require.NotNil(t, h2)

	v, ok := h2.Attr("data-x")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = h2.Attr("data-y")
	assert.False(t, ok)
}

func TestNextSibling_SkipsTextAndComments(t *testing.T) {
	root := mustParse(t, sample)
	h2 := Find(root, Tag("h2"))
	require.NotNil(t, h2)

	a := h2.NextSibling()
	require.NotNil(t, a)
	id, _ := a.Attr("id")
	assert.Equal(t, "a", id)

	b := a.NextSibling()
	require.NotNil(t, b)
	id, _ = b.Attr("id")
	assert.Equal(t, "b", id)

	c := b.NextSibling()
	require.NotNil(t, c)
	assert.Equal(t, "span", c.Tag())
	assert.Nil(t, c.NextSibling())
}

func TestChildren_ElementsOnly(t *testing.T) {
	root := mustParse(t, sample)
	a := Find(root, HasAttr("id"))
	require.NotNil(t, a)
	assert.Len(t, a.Children(), 2)

	b := a.NextSibling()
	assert.Empty(t, b.Children())
}

func TestText_ExcludesComments(t *testing.T) {
	root := mustParse(t, sample)
	a := Find(root, Tag("div"))
	require.NotNil(t, a)
	assert.Equal(t, "onetwo bold", a.Text())
}

func TestParent(t *testing.T) {
	root := mustParse(t, sample)
	b := Find(root, Tag("b"))
	require.NotNil(t, b)
	assert.Equal(t, "p", b.Parent().Tag())
	assert.Equal(t, "div", b.Parent().Parent().Tag())
}

func TestRender(t *testing.T) {
	root := mustParse(t, sample)
	b := Find(root, Tag("b"))
	require.NotNil(t, b)
	assert.Equal(t, "<b>bold</b>", Render(b))
}

func TestParse_Fragment(t *testing.T) {
	// The HTML parser always synthesizes html/head/body.
	root, err := Parse(strings.NewReader("<p>hi</p>"))
	require.NoError(t, err)
	assert.Equal(t, "html", root.Tag())
	p := Find(root, Tag("p"))
	require.NotNil(t, p)
	assert.Equal(t, "hi", p.Text())
}
