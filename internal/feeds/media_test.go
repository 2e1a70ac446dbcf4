package feeds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"newsroom/internal/models"
)

func TestEmbedBodyPointsSrcAtAssetEndpoint(t *testing.T) {
	s := testSerializer()
	item := testItem()
	item.BodyHTML = `<!-- EMBED START Video {id: "editor_0"} -->` +
		`<figure><video src="/assets/local.mp4"></video></figure>` +
		`<!-- EMBED END Video {id: "editor_0"} -->`
	item.Associations = map[string]*models.Association{
		"editor_0": {
			Type: models.TypeVideo,
			Renditions: map[string]models.Rendition{
				"original": {Href: "/assets/local.mp4", Media: "vid-media"},
			},
		},
	}

	body, err := s.embedBody(item, "tok")
	require.NoError(t, err)
	require.Contains(t, body, `src="http://api.test/assets/vid-media?token=tok"`)
}

func TestEmbedBodyWithoutAssociationIsUntouched(t *testing.T) {
	s := testSerializer()
	item := testItem()
	item.BodyHTML = `<!-- EMBED START Video {id: "editor_0"} --><figure><video src="/v"></video></figure>`

	body, err := s.embedBody(item, "")
	require.NoError(t, err)
	require.Equal(t, item.BodyHTML, body)
}

func TestPickMediaReferencePrefersOriginal(t *testing.T) {
	assoc := &models.Association{Renditions: map[string]models.Rendition{
		"original": {Media: "orig-media"},
		"16-9":     {Media: "wide-media"},
	}}
	require.Equal(t, "orig-media", pickMediaReference(assoc))

	delete(assoc.Renditions, "original")
	require.Equal(t, "wide-media", pickMediaReference(assoc))

	assoc.Renditions = nil
	require.Empty(t, pickMediaReference(assoc))
}
