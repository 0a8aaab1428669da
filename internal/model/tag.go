package model

// Tag is a user-scoped label attachable to links.
// Name uniqueness per user is a caller concern, not enforced here.
type Tag struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// NewTag creates a Tag with generated UUID.
func NewTag(userID, name string) Tag {
	return Tag{
		ID:     GenerateUUID(),
		UserID: userID,
		Name:   name,
	}
}

// LinkTag associates a link with a tag. Pairs are unique; attaching
// the same pair twice has no additional effect.
type LinkTag struct {
	LinkID string `json:"linkId"`
	TagID  string `json:"tagId"`
}
