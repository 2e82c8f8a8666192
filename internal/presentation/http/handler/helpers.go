package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/presentation/http/dto/response"
)

// parseIDParam reads a uuid path parameter, replying 400 when it is malformed
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, fmt.Sprintf("Invalid %s ID", label))
		return uuid.Nil, false
	}
	return id, true
}

// bindFailed replies 400 for request bodies or queries that cannot be decoded
func bindFailed(c *gin.Context, err error) {
	response.BadRequest(c, "Invalid request: "+err.Error())
}
