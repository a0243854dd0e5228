package instagram

import (
	"strconv"
	"time"
)

// loginResponse is the body of the web login endpoint
type loginResponse struct {
	Authenticated     bool   `json:"authenticated"`
	User              bool   `json:"user"`
	UserID            string `json:"userId"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	TwoFactorRequired bool   `json:"two_factor_required"`
	CheckpointURL     string `json:"checkpoint_url"`
}

// profileResponse is the body of web_profile_info
type profileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Status          string `json:"status"`
	Data            struct {
		User *struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	} `json:"data"`
}

// feedResponse is one page of a user's media feed
type feedResponse struct {
	Items         []Post `json:"items"`
	MoreAvailable bool   `json:"more_available"`
	NextMaxID     string `json:"next_max_id"`
	NumResults    int    `json:"num_results"`
	Status        string `json:"status"`
}

// likersResponse is the body of the media likers endpoint
type likersResponse struct {
	Users     []Liker `json:"users"`
	UserCount int     `json:"user_count"`
	Status    string  `json:"status"`
}

// Caption is a post caption
type Caption struct {
	Text string `json:"text"`
}

// Post is one media item of a user's feed
type Post struct {
	PK           int64    `json:"pk"`
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	TakenAt      int64    `json:"taken_at"`
	MediaType    int      `json:"media_type"`
	LikeCount    int      `json:"like_count"`
	CommentCount int      `json:"comment_count"`
	Caption      *Caption `json:"caption"`
}

// CaptionText returns the caption, or "" when the post has none
func (p *Post) CaptionText() string {
	if p.Caption == nil {
		return ""
	}
	return p.Caption.Text
}

// TakenAtTime returns the publication time in UTC
func (p *Post) TakenAtTime() time.Time {
	return time.Unix(p.TakenAt, 0).UTC()
}

// MediaID returns the identifier used by the likers endpoint
func (p *Post) MediaID() string {
	if p.PK != 0 {
		return strconv.FormatInt(p.PK, 10)
	}
	return p.ID
}

// Liker is an account that liked a post
type Liker struct {
	PK       int64  `json:"pk"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}
