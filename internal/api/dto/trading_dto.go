package dto

// ClosePositionRequest names the symbol to close.
type ClosePositionRequest struct {
	Symbol string `json:"symbol"`
}
