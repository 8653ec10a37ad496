package models

import "time"

// FileInfo represents metadata about a stored program file.
type FileInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"` // "generated"
}
