package models

type UpdatePlantRequest struct {
	// All fields are optional; omitted fields keep their stored value.
	DisplayName *string `json:"display_name,omitempty"`
	Species     *string `json:"species,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
