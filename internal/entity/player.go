package entity

// Player is a connected human. ID is owned by the transport and lives as long as the connection.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
