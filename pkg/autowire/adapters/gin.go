package adapters

import (
	"github.com/gin-gonic/gin"
)

// Gin returns a handler that creates a controller with newFn (or new(T)
// when nil), injects it and passes it to handle
func Gin[T any](inj Injector, newFn func() *T, handle func(*T, *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := construct(newFn)
		if err := inj.Inject(ctrl); err != nil {
			code, body := errorResponse(err)
			c.AbortWithStatusJSON(code, body)
			return
		}
		if err := handle(ctrl, c); err != nil {
			code, body := errorResponse(err)
			c.JSON(code, body)
		}
	}
}

// GinMiddleware injects a controller per request and stores it in the
// context under key, for handlers further down the chain
func GinMiddleware[T any](inj Injector, key string, newFn func() *T) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl := construct(newFn)
		if err := inj.Inject(ctrl); err != nil {
			code, body := errorResponse(err)
			c.AbortWithStatusJSON(code, body)
			return
		}
		c.Set(key, ctrl)
		c.Next()
	}
}
