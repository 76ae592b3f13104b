package content

import "strings"

// Type is the category of a saved item.
type Type string

const (
	TypeYouTube    Type = "youtube"
	TypeArticle    Type = "article"
	TypeReddit     Type = "reddit"
	TypeTwitter    Type = "twitter"
	TypeSpotify    Type = "spotify"
	TypeSoundCloud Type = "soundcloud"
	TypeMovie      Type = "movie"
	TypeBook       Type = "book"
	TypeImage      Type = "image"
	TypeVideo      Type = "video"
)

var knownTypes = []Type{
	TypeYouTube,
	TypeArticle,
	TypeReddit,
	TypeTwitter,
	TypeSpotify,
	TypeSoundCloud,
	TypeMovie,
	TypeBook,
	TypeImage,
	TypeVideo,
}

// Types returns every type accepted on write, in declaration order.
func Types() []Type {
	out := make([]Type, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// Known reports whether t is accepted on write. Stored rows may still carry
// types outside this set; readers must not reject them.
func (t Type) Known() bool {
	for _, k := range knownTypes {
		if k == t {
			return true
		}
	}
	return false
}

func (t Type) String() string { return string(t) }

// ParseType normalizes s and returns it as a Type along with whether it is known.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Known()
}
