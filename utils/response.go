package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fixed client-facing messages.
const (
	NotFoundMessage      = "Record not found."
	NotPublishedMessage  = "Requested record is not published."
	ValidationMessage    = "Unexpected data type found."
	UnknownErrorMessage  = "Unknown error occurred."
	RateLimitedMessage   = "Rate limit exceeded."
	RouteNotFoundMessage = "Route not found."
)

// MessageBody is the body of every error response.
type MessageBody struct {
	Message string `json:"message"`
}

// Success writes v as a 200 JSON body.
func Success(ctx *gin.Context, v interface{}) {
	ctx.JSON(http.StatusOK, v)
}

// SuccessRaw writes already encoded JSON.
func SuccessRaw(ctx *gin.Context, body []byte) {
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Error writes {"message": ...} with the given status.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, MessageBody{Message: message})
}

// Abort writes an error and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, MessageBody{Message: message})
}
