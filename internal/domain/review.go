package domain

import "time"

// Review is a new review to insert.
type Review struct {
	UserID    int64
	ProductID int64
	Rating    int
	Text      string
}

// ProductReview is one review as listed under its product, with the
// author's username.
type ProductReview struct {
	ProductID int64     `json:"productid"`
	UserID    int64     `json:"userid"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
}
