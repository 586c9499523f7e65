// Package tournament defines tournament records.
package tournament

import "time"

// Tournament represents a scheduled competition.
type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"startsAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}
