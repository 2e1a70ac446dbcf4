package embeds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"

	"newsroom/internal/entitle"
)

func TestUpdateEmbedsRewritesMediaElements(t *testing.T) {
	body := `<!-- EMBED START Video {id: "editor_0"} -->` +
		`<figure><video src="/assets/vid0"></video></figure>` +
		`<!-- EMBED END Video {id: "editor_0"} -->`

	out, changed, err := UpdateEmbeds(body, func(elem *html.Node, embedID string, kind entitle.Tag) bool {
		require.Equal(t, "editor_0", embedID)
		require.Equal(t, entitle.TagVideo, kind)
		SetAttr(elem, "id", embedID)
		return true
	})
	require.NoError(t, err)
	require.True(t, changed)
	require.Contains(t, out, `id="editor_0"`)
}

func TestUpdateEmbedsNoChangeKeepsFragmentVerbatim(t *testing.T) {
	body := `<!-- EMBED START Audio {id: "editor_1"} --><figure><audio src="/a"></audio></figure>`

	out, changed, err := UpdateEmbeds(body, func(*html.Node, string, entitle.Tag) bool {
		return false
	})
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, body, out)
}

func TestUpdateEmbedsSkipsSocialMediaBlocks(t *testing.T) {
	body := `<div class="embed-block"><blockquote><p>post</p></blockquote></div>`

	calls := 0
	_, changed, err := UpdateEmbeds(body, func(*html.Node, string, entitle.Tag) bool {
		calls++
		return false
	})
	require.NoError(t, err)
	require.False(t, changed)
	require.Zero(t, calls)
}

func TestUpdateEmbedsEmptyFragment(t *testing.T) {
	out, changed, err := UpdateEmbeds("", func(*html.Node, string, entitle.Tag) bool {
		return true
	})
	require.NoError(t, err)
	require.False(t, changed)
	require.Empty(t, out)
}
