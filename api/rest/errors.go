package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/apperr"
)

// respondError answers {"error": msg} with the status matching err's code.
// The error is also attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.MessageOf(err)})
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.InvalidArgumentf("invalid body: %v", err))
		return false
	}
	return true
}
