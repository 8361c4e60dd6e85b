package handler

type RecoResponse struct {
	UserID int64   `json:"user_id"`
	Items  []int64 `json:"items"`
}

type ErrorObject struct {
	ErrorKey     string `json:"error_key"`
	ErrorMessage string `json:"error_message"`
}

type ErrorResponse struct {
	Errors []ErrorObject `json:"errors"`
}
