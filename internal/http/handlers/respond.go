package handlers

import (
	"github.com/gin-gonic/gin"
)

// fail hands an error to the terminal error middleware and stops the chain.
// Handlers never write failure responses themselves.
func fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
