package serverutils

// BaseResponse is the envelope every JSON endpoint returns.
type BaseResponse[T any] struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Code:    code,
		Message: message,
	}
}

// FieldErrorResponse attaches errors to specific input fields so the form can
// highlight them instead of showing a generic toast.
func FieldErrorResponse(code int, message string, fields map[string]string) BaseResponse[any] {
	return BaseResponse[any]{
		Code:    code,
		Message: message,
		Errors:  fields,
	}
}
