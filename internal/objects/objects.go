// Package objects holds the shared domain types exchanged between the
// HTTP layer, the services and the stores.
package objects

// ErrorResponse is the JSON error body returned by the HTTP layer.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// Error describes a request failure.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
