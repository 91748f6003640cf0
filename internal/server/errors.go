package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	currencypricedomain "github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal         = errors.New("internal_error")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrMethodNotAllowed = errors.New("method_not_allowed")
	ErrForwardLoop      = errors.New("forward_loop")
)

// validationSentinels are matched in order; the first hit names the code.
var validationSentinels = []error{
	ErrInvalidRequest,
	commercedomain.ErrInvalidKind,
	commercedomain.ErrInvalidID,
	commercedomain.ErrInvalidName,
	commercedomain.ErrInvalidAmount,
	commercedomain.ErrCurrencyNotFound,
	currencypricedomain.ErrUnknownCurrency,
	currencypricedomain.ErrInvalidCurrency,
	currencypricedomain.ErrInvalidAmount,
	currencypricedomain.ErrInvalidField,
	currencypricedomain.ErrInvalidOwner,
	localization.ErrUnknownCurrency,
	localization.ErrInvalidNumber,
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if code, ok := validationErrorCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case db.IsForeignKeyErr(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "reference", Code: "invalid_reference", Message: "referenced row does not exist"},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, errorPayload{
			Type:    "method_not_allowed",
			Message: "method not allowed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, commercedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) (string, bool) {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error(), true
		}
	}
	return "", false
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "currency_not_found", "unknown_currency":
		return "currency"
	case "invalid_number":
		return "amount"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "currency_not_found", "unknown_currency":
		return "not a configured payment currency"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog reports the response type and code of err for request logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
