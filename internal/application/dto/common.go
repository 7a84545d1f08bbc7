package dto

// ListQuery parámetros de búsqueda y orden de las vistas (?q=&sort=&desc=).
type ListQuery struct {
	Q    string `query:"q"`
	Sort string `query:"sort"`
	Desc bool   `query:"desc"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
