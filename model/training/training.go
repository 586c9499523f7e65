// Package training defines training session records.
package training

import "time"

// Training represents a training session.
type Training struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Minutes   int       `json:"minutes"`
	StartsAt  time.Time `json:"startsAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}
