package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiber_InjectsPerRequest(t *testing.T) {
	inj, logger := newTestInjector(t)

	app := fiber.New()
	app.Get("/greet/:name", Fiber(inj, nil, func(g *greetController, c *fiber.Ctx) error {
		g.Name = c.Params("name")
		return c.SendString(g.greeting())
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/greet/ada", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello from adapters", string(body))
	assert.Equal(t, []string{"greeting ada"}, logger.Lines())
}

func TestFiber_InjectionFailure(t *testing.T) {
	inj, _ := newTestInjector(t)

	app := fiber.New()
	app.Get("/broken", Fiber(inj, nil, func(*brokenController, *fiber.Ctx) error {
		t.Error("handler must not run when injection fails")
		return nil
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/broken", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "Gadget")
}
