package dto

// Response sobre de éxito de la API: {message, data}.
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OK construye el sobre de éxito.
func OK(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// ErrorResponse sobre de error de la API: {message, error}.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Err construye el sobre de error. code es un identificador corto estable
// (NOT_FOUND, FORBIDDEN, ...) pensado para que el cliente pueda ramificar.
func Err(message, code string) ErrorResponse {
	return ErrorResponse{Message: message, Error: code}
}

// PageRequest paginación para listados (?page=1&per_page=20).
type PageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

// DefaultPage aplica los valores por defecto del contrato (per_page=20).
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset desplazamiento SQL equivalente.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}
