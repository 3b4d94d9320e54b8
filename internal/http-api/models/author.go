package models

// Author is the resolved display identity of a review's author. A review
// soft-references its author; when the reference dangles (user deleted)
// the author degrades to Anonymous. Resolution happens once at read time
// so call sites never null-check.
type Author struct {
	Known  bool   `json:"known"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Anonymous is the fallback identity for dangling author references.
var Anonymous = Author{Known: false, Name: "Anonymous"}

// ResolveAuthor maps an optionally-missing user to the Author variant.
func ResolveAuthor(u *User) Author {
	if u == nil {
		return Anonymous
	}
	return Author{
		Known:  true,
		ID:     u.ID,
		Name:   u.Name(),
		Avatar: u.AvatarURL,
	}
}
