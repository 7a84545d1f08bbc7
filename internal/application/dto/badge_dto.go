package dto

// BadgeRequest body para POST /api/badges.
type BadgeRequest struct {
	Names []string `json:"names"`
}
