package model

import "time"

// Review is one visitor comment on the review board, keyed by place name.
type Review struct {
	ID        string    `json:"id"`
	Place     string    `json:"place"`
	Author    string    `json:"author,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
