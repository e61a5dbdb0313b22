package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mestoapp/mesto/internal/apperr"
)

// BindJSON binds and validates the request body. On failure it attaches a
// BadRequest to the context and reports false; the caller just returns.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		fail(ctx, apperr.BadRequest(bindMessage(err)))

		return false
	}

	return true
}

func bindMessage(err error) string {
	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		fields := make([]string, 0, len(validatorErrs))

		for _, fieldErr := range validatorErrs {
			fields = append(fields, strings.ToLower(fieldErr.Field())+" "+ruleMessage(fieldErr.Tag(), fieldErr.Param()))
		}

		return "Invalid request data: " + strings.Join(fields, ", ")
	}

	return "Invalid request body"
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "failed " + rule + " validation"
	}
}
