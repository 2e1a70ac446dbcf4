package entitle

import "newsroom/internal/models"

// Tag identifies one embedded-media capability.
type Tag string

const (
	TagVideo       Tag = "video"
	TagAudio       Tag = "audio"
	TagImage       Tag = "img"
	TagSocialMedia Tag = "social_media"
)

// Axis selects which side of the permission profile applies.
type Axis int

const (
	AxisDisplay Axis = iota
	AxisDownload
)

// MediaTags is the full capability set used when an axis is unrestricted.
var MediaTags = []Tag{TagVideo, TagAudio, TagImage, TagSocialMedia}

// TagSet is the resolved set of allowed capability tags for one axis.
type TagSet map[Tag]bool

// Allows reports whether the tag may pass on this axis.
func (s TagSet) Allows(tag Tag) bool {
	return s[tag]
}

// AllowsType reports whether an association of the given type may pass.
// Association types use "picture" where the markup vocabulary uses "img".
func (s TagSet) AllowsType(assocType string) bool {
	switch assocType {
	case models.TypePicture:
		return s[TagImage]
	case models.TypeVideo:
		return s[TagVideo]
	case models.TypeAudio:
		return s[TagAudio]
	case models.TypeSocialMedia:
		return s[TagSocialMedia]
	}
	return true
}

// EffectiveTags resolves the allowed tag set for one axis of a company
// profile. An axis grants the full media set when the "all" flag is set or
// when no flag at all is set on that axis: an empty profile means
// "no restriction configured", not "deny everything". The sd permit flag
// carries no media tag of its own but does count as a configured flag, so
// a profile granting only sd permit blocks every media kind.
func EffectiveTags(p models.Permissions, axis Axis) TagSet {
	var granted []Tag
	var all, sd bool
	switch axis {
	case AxisDisplay:
		all, sd = p.AllDisplay, p.SdPermitDisplay
		granted = grantedTags(p.VideoDisplay, p.AudioDisplay, p.ImagesDisplay, p.SocialMediaDisplay)
	case AxisDownload:
		all, sd = p.AllDownload, p.SdPermitDownload
		granted = grantedTags(p.VideoDownload, p.AudioDownload, p.ImagesDownload, p.SocialMediaDownload)
	}

	if all || (len(granted) == 0 && !sd) {
		granted = MediaTags
	}

	set := make(TagSet, len(granted))
	for _, tag := range granted {
		set[tag] = true
	}
	return set
}

func grantedTags(video, audio, images, social bool) []Tag {
	var tags []Tag
	if video {
		tags = append(tags, TagVideo)
	}
	if audio {
		tags = append(tags, TagAudio)
	}
	if images {
		tags = append(tags, TagImage)
	}
	if social {
		tags = append(tags, TagSocialMedia)
	}
	return tags
}

// FailOpenPermissions is the profile applied when the principal has no
// company or the company cannot be found: display defaults to "all" and
// the empty download axis resolves to the full set as well.
func FailOpenPermissions() models.Permissions {
	return models.Permissions{AllDisplay: true}
}

// ProductAllowed applies the per-embed product gate: an embed declaring
// product codes is downloadable only when at least one of them is among
// the permitted codes. An embed with no product list is unrestricted.
func ProductAllowed(embedProducts []models.CodeName, permitted []string) bool {
	if len(embedProducts) == 0 {
		return true
	}
	for _, p := range embedProducts {
		for _, code := range permitted {
			if p.Code == code {
				return true
			}
		}
	}
	return false
}
