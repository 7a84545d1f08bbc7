package dto

// SettingsResponse listas de autocompletado.
type SettingsResponse struct {
	Organizations []string `json:"organizations"`
	Operators     []string `json:"operators"`
}

// UpdateSettingsRequest body para PUT /api/settings.
type UpdateSettingsRequest struct {
	Organizations []string `json:"organizations"`
	Operators     []string `json:"operators"`
}
