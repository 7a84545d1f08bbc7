package dto

// TokenRequest body para POST /api/auth/token.
type TokenRequest struct {
	Submitter  string `json:"submitter"`
	Passphrase string `json:"passphrase"`
}

// TokenResponse token emitido.
type TokenResponse struct {
	Token     string `json:"token"`
	Submitter string `json:"submitter"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
