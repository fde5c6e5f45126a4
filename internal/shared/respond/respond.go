// Package respond renders the API's JSON envelope: {success, message?, data?}.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK sends a successful envelope with data only.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage sends a successful envelope with a message and optional data.
func OKMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 envelope with a message and the created resource.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Fail sends a failure envelope with the given HTTP status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// ErrorMapper translates an application error into an HTTP status and message.
// Returning false passes the error to the next mapper in the chain.
type ErrorMapper func(err error) (int, string, bool)

// Error runs err through the mapper chain and falls back to a 500 envelope
// surfacing the underlying message.
func Error(c *gin.Context, err error, mappers ...ErrorMapper) {
	if err == nil {
		return
	}
	for _, mapper := range mappers {
		if mapper == nil {
			continue
		}
		if status, message, ok := mapper(err); ok {
			Fail(c, status, message)
			return
		}
	}
	Fail(c, http.StatusInternalServerError, err.Error())
}
