package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/model"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/schedule"
)

// APIError is rendered as {"error": Message, "code": InvariantCode, "details": Details}.
type APIError struct {
	Code          int
	Message       string
	InvariantCode string
	Details       []string
}

type HandlerFuncWithTenant func(ctx *gin.Context, tenant model.Tenant) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// Created wraps a result that should be answered with 201.
type Created struct {
	Body any
}

type noContent struct{}

// NoContent answers with 204 and no body.
var NoContent = noContent{}

func ResolveEndpointWithTenant(h HandlerFuncWithTenant) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tenant, ok := middleware.GetCurrentTenant(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, tenant)
		write(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		write(ctx, result, apiErr)
	}
}

func write(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		body := gin.H{"error": apiErr.Message}
		if apiErr.InvariantCode != "" {
			body["code"] = apiErr.InvariantCode
		}
		if len(apiErr.Details) > 0 {
			body["details"] = apiErr.Details
		}
		ctx.JSON(apiErr.Code, body)
		return
	}

	switch r := result.(type) {
	case noContent:
		ctx.Status(http.StatusNoContent)
	case Created:
		ctx.JSON(http.StatusCreated, r.Body)
	default:
		ctx.JSON(http.StatusOK, result)
	}
}

// FromError maps the schedule error taxonomy onto HTTP.
func FromError(err error) *APIError {
	var (
		val *schedule.ValidationError
		inv *schedule.InvariantError
		nf  *schedule.NotFoundError
	)
	switch {
	case errors.As(err, &val):
		return &APIError{Code: http.StatusBadRequest, Message: val.Message, InvariantCode: "VALIDATION", Details: val.Fields}
	case errors.As(err, &inv):
		return &APIError{Code: http.StatusBadRequest, Message: inv.Message, InvariantCode: string(inv.Code), Details: inv.Details}
	case errors.As(err, &nf):
		return &APIError{Code: http.StatusNotFound, Message: nf.Error()}
	default:
		return &APIError{Code: http.StatusInternalServerError, Message: "internal error, please retry"}
	}
}
