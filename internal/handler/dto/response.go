package dto

// Response — единый конверт всех ответов API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewSuccessResponse создает успешный ответ с данными
func NewSuccessResponse(data interface{}, message string) *Response {
	return &Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse создает ответ об ошибке
func NewErrorResponse(message string, errs interface{}) *Response {
	return &Response{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}
