package content

import "time"

// Item is a saved link with its metadata and note.
type Item struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Thumbnail *string   `json:"thumbnail,omitempty"`
	Author    *string   `json:"author,omitempty"`
	Duration  *string   `json:"duration,omitempty"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft is the input of a create call. ID and CreatedAt are assigned by the store.
type Draft struct {
	Type      Type    `json:"type"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Note      string  `json:"note"`
	Thumbnail *string `json:"thumbnail,omitempty"`
	Author    *string `json:"author,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged; an empty string on
// one of the optional fields clears it.
type Patch struct {
	Type      *Type   `json:"type,omitempty"`
	URL       *string `json:"url,omitempty"`
	Title     *string `json:"title,omitempty"`
	Note      *string `json:"note,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
	Author    *string `json:"author,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Type == nil && p.URL == nil && p.Title == nil && p.Note == nil &&
		p.Thumbnail == nil && p.Author == nil && p.Duration == nil && p.Location == nil
}

// Apply returns a copy of it with the patch applied.
func (p Patch) Apply(it Item) Item {
	if p.Type != nil {
		it.Type = *p.Type
	}
	if p.URL != nil {
		it.URL = *p.URL
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Note != nil {
		it.Note = *p.Note
	}
	if p.Thumbnail != nil {
		it.Thumbnail = optional(*p.Thumbnail)
	}
	if p.Author != nil {
		it.Author = optional(*p.Author)
	}
	if p.Duration != nil {
		it.Duration = optional(*p.Duration)
	}
	if p.Location != nil {
		it.Location = optional(*p.Location)
	}
	return it
}

// NewItem builds an item from a validated draft.
func NewItem(id string, d Draft, createdAt time.Time) Item {
	return Item{
		ID:        id,
		Type:      d.Type,
		URL:       d.URL,
		Title:     d.Title,
		Note:      d.Note,
		Thumbnail: d.Thumbnail,
		Author:    d.Author,
		Duration:  d.Duration,
		Location:  d.Location,
		CreatedAt: createdAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
