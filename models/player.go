package models

// Player is a registered participant. Score is computed by the backend.
type Player struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type AddPlayerRequest struct {
	Name string `json:"name"`
}
