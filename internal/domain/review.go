package domain

import "time"

// Review is a customer rating of a car, written once per (car, user) pair
// after a completed booking. UserName is denormalized so listings never need
// a user join.
type Review struct {
	ID        int32     `json:"id"`
	CarID     int32     `json:"car_id"`
	UserID    int32     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int32     `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedOn time.Time `json:"created_on"`
}
