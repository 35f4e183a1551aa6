package adapters

import (
	"github.com/gofiber/fiber/v2"
)

// Fiber returns a handler that creates a controller with newFn (or new(T)
// when nil), injects it and passes it to handle
func Fiber[T any](inj Injector, newFn func() *T, handle func(*T, *fiber.Ctx) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctrl := construct(newFn)
		if err := inj.Inject(ctrl); err != nil {
			code, body := errorResponse(err)
			return c.Status(code).JSON(body)
		}
		if err := handle(ctrl, c); err != nil {
			code, body := errorResponse(err)
			return c.Status(code).JSON(body)
		}
		return nil
	}
}
