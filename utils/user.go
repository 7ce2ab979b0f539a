package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// GetActiveUser pulls the authenticated user that AuthenticatedMiddleware
// stashed on the request context.
func GetActiveUser(ctx *gin.Context) (*TokenObject, error) {
	value, exists := ctx.Get("user")
	if !exists {
		return nil, fmt.Errorf("no active user on request")
	}

	user, ok := value.(TokenObject)
	if !ok {
		return nil, fmt.Errorf("active user has unexpected type")
	}

	return &user, nil
}
