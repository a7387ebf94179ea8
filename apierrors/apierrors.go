// Package apierrors defines the error taxonomy shared by all handlers and
// the single responder that maps an error to an HTTP status and a
// {"message": ...} JSON body.
package apierrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	Validation     Kind = iota // malformed or missing input
	Authentication             // missing/invalid/expired credential
	Authorization              // valid credential, insufficient role
	NotFound                   // referenced entity absent
	Conflict                   // duplicate email, duplicate subscriber
	Delivery                   // outbound email failed
	Internal                   // catch-all
)

type APIError struct {
	Kind    Kind
	Message string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Status() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// Respond writes err to the response. Unclassified errors become a generic
// 500 so internal details never leak to the client.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status(), gin.H{"message": apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong"})
}
