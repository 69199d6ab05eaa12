package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/entities"
	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/logger"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(domainerrors.CodeInvalidRequest)})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, log *logger.Logger, err error, context string) {
	log.Error("internal error", "context", context, "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: string(domainerrors.CodeStorage)})
}

// respondError translates a domain error into its HTTP status. Storage
// failures and unclassified errors are logged and hidden from the client.
func respondError(c *gin.Context, log *logger.Logger, err error, context string) {
	var de *domainerrors.Error
	if !domainerrors.As(err, &de) || de.Code == domainerrors.CodeStorage {
		respondInternalError(c, log, err, context)
		return
	}
	c.JSON(de.HTTPStatus(), ErrorResponse{Error: de.Message, Code: string(de.Code), Details: de.Details})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseItemTypeParam reads the :type segment of item routes.
func parseItemTypeParam(c *gin.Context) (entities.ItemType, bool) {
	itemType, ok := entities.ParseItemType(c.Param("type"))
	if !ok {
		respondBadRequest(c, "item type must be vocab or grammar")
		return "", false
	}
	return itemType, true
}

// parseIntQuery reads an optional integer query parameter.
func parseIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
