// internal/handlers/helpers.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// uintParam parses a numeric path parameter (token, order, auction and
// artwork identifiers are monotonic counters, not UUIDs).
func uintParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
