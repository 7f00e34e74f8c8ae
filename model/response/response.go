package response

// ResponseModel is the envelope every API handler returns.
type ResponseModel struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(data any, message string) ResponseModel {
	return ResponseModel{Success: true, Data: data, Message: message}
}

func Err(message string) ResponseModel {
	return ResponseModel{Success: false, Error: message}
}
