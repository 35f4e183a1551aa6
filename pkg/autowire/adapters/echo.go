package adapters

import (
	"github.com/labstack/echo/v4"
)

// Echo returns a handler that creates a controller with newFn (or new(T)
// when nil), injects it and passes it to handle
func Echo[T any](inj Injector, newFn func() *T, handle func(*T, echo.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctrl := construct(newFn)
		if err := inj.Inject(ctrl); err != nil {
			code, body := errorResponse(err)
			return c.JSON(code, body)
		}
		if err := handle(ctrl, c); err != nil {
			code, body := errorResponse(err)
			return c.JSON(code, body)
		}
		return nil
	}
}
