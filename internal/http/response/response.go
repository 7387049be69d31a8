// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Успех — {success, data},
// ошибка — {success, error: {message, statusCode}}.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody — тело ошибки внутри конверта.
type ErrorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error возвращает Response с сообщением и HTTP-статусом ошибки.
func Error(msg string, statusCode int) Response {
	return Response{
		Success: false,
		Error: &ErrorBody{
			Message:    msg,
			StatusCode: statusCode,
		},
	}
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "eqfield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must match field %s", err.Field(), err.Param()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be %s characters long", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "), 400)
}
