package dto

// StatusRequest is the body of the inline status edit.
type StatusRequest struct {
	Status string `json:"status"`
}
