package dto

type SuccessResponse struct {
	Message string `json:"message"`
}
