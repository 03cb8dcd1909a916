// Package handlers holds the gin HTTP handlers of the public API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an AppError to its HTTP status; anything else is a 500.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	} else {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "internal error")
	}
	c.JSON(appErr.Code.HTTPStatus(), ErrorResponse{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, errors.InvalidParam("malformed "+name).WithDetail(c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional UUID query parameter.  Absent is uuid.Nil.
func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, errors.InvalidParam("malformed "+name).WithDetail(raw))
		return uuid.Nil, false
	}
	return id, true
}

// pagination extracts offset/limit query parameters with sane bounds.
func pagination(c *gin.Context) (offset, limit int) {
	offset = 0
	limit = 20
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return offset, limit
}

// created writes a 201 with the payload.
func created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
