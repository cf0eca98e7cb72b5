package models

import "time"

// MaxPostMedia is the number of media files a single post may carry.
const MaxPostMedia = 3

// Post is a feed entry. Liked and Likes are the per-viewer like state.
type Post struct {
	ID        int64     `json:"id"`
	User      *User     `json:"user,omitempty"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"mediaUrls,omitempty"`
	Liked     bool      `json:"liked"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Post) Key() string          { return Key(p.ID) }
func (p Post) Timestamp() time.Time { return p.CreatedAt }

// LikeState returns the like fields of p.
func (p Post) LikeState() LikeState {
	return LikeState{Liked: p.Liked, Count: p.Likes}
}

type Comment struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is the authoritative answer of the like-toggle endpoint.
type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"likeCount"`
}
