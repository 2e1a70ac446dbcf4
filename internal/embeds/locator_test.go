package embeds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"newsroom/internal/entitle"
)

func TestLocateCommentMarkers(t *testing.T) {
	body := `<p>intro</p>` +
		`<!-- EMBED START Video {id: "editor_0"} -->` +
		`<figure><video controls src="/assets/v0"></video></figure>` +
		`<!-- EMBED END Video {id: "editor_0"} -->` +
		`<!-- EMBED START Image {id: "editor_2"} -->` +
		`<figure><img src="/assets/i2"></figure>` +
		`<!-- EMBED END Image {id: "editor_2"} -->`

	markers, err := Locate(body)
	require.NoError(t, err)
	require.Len(t, markers, 2)

	require.Equal(t, entitle.TagVideo, markers[0].Kind)
	require.Equal(t, "editor_0", markers[0].EmbedID)
	require.Equal(t, "figure", markers[0].Anchor.Data)

	require.Equal(t, entitle.TagImage, markers[1].Kind)
	require.Equal(t, "editor_2", markers[1].EmbedID)
}

func TestLocateIgnoresMalformedMarkers(t *testing.T) {
	for _, body := range []string{
		`<!-- EMBED START Gif {id: "editor_0"} --><figure></figure>`,
		`<!--EMBED START Video {id: "editor_0"} --><figure></figure>`,
		`<!-- EMBED START Video {id: editor_0} --><figure></figure>`,
		`<!-- EMBED START Video {id: "custom_0"} --><figure></figure>`,
	} {
		markers, err := Locate(body)
		require.NoError(t, err)
		require.Empty(t, markers, "body %q", body)
	}
}

func TestLocateMarkerWithoutAnchorIsSkipped(t *testing.T) {
	markers, err := Locate(`<p>text</p><!-- EMBED START Video {id: "editor_0"} -->`)
	require.NoError(t, err)
	require.Empty(t, markers)
}

func TestLocateSocialMediaBlocks(t *testing.T) {
	body := `<div class="embed-block"><blockquote class="twitter-tweet"><p>post</p></blockquote></div>`

	markers, err := Locate(body)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	require.Equal(t, entitle.TagSocialMedia, markers[0].Kind)
	require.Nil(t, markers[0].Comment)
	require.Equal(t, "div", markers[0].Anchor.Data)
}

func TestLocateIsStableAcrossReparses(t *testing.T) {
	body := `<!-- EMBED START Audio {id: "editor_1"} --><figure><audio src="/assets/a1"></audio></figure>`

	first, err := Locate(body)
	require.NoError(t, err)
	second, err := Locate(body)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		require.Equal(t, first[i].Kind, second[i].Kind)
		require.Equal(t, first[i].EmbedID, second[i].EmbedID)
	}
}
