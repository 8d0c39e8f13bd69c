package entity

import "time"

// Stats is a point-in-time view of the registries for the status surface.
type Stats struct {
	WaitingCount    int       `json:"waitingCount"`
	ActiveRoomCount int       `json:"activeRoomCount"`
	TotalPlayers    int       `json:"totalPlayers"`
	ReportedAt      time.Time `json:"reportedAt"`
}
