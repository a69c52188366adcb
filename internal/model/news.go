package model

import "time"

// NewsItem is one entry of the aggregated automotive news feed.
type NewsItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	PubDate     string     `json:"pubDate"`
	Source      string     `json:"source"`
	Image       *string    `json:"image,omitempty"`
	Published   *time.Time `json:"-"`
}
