package autowire_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/autowire/internal/fixtures/app"
	"github.com/toyz/autowire/pkg/autowire"
	"github.com/toyz/autowire/pkg/container"
)

const appPkg = "github.com/toyz/autowire/internal/fixtures/app"

type HomeController struct {
	autowire.Component

	Logger *app.Logger `autowire:""`
	Title  string
}

type PlainController struct {
	autowire.Component

	Title string `json:"title"`
}

type WidgetController struct {
	autowire.Component

	Widget *app.Widget `autowire:"factory=github.com/toyz/autowire/internal/fixtures/app.WidgetFactory::Build"`
}

type DefaultWidgetController struct {
	autowire.Component

	Widget *app.Widget `autowire:"factory=app.WidgetFactory"`
}

type PrivateController struct {
	autowire.Component

	logger *app.Logger `autowire:""`
}

// RequestLog is only known through the fields mentioning it
type RequestLog struct {
	Entries []string
}

type LocalController struct {
	autowire.Component

	Log *RequestLog `autowire:"" type:"RequestLog"`
	Any any         `autowire:"" type:"app.Logger"`
}

// Services is embedded through a pointer that starts out nil
type Services struct {
	Logger *app.Logger `autowire:""`
}

type EmbeddingController struct {
	autowire.Component
	*Services

	Mailer app.Mailer `autowire:""`
}

// Presenter is a framework base whose own fields are never scanned
type Presenter struct {
	autowire.Component

	Session *app.Logger `autowire:""`
}

type ArticlePresenter struct {
	Presenter

	Logger *app.Logger `autowire:""`
}

type NotAComponent struct {
	Logger *app.Logger `autowire:""`
}

type counter struct {
	*container.Container
	instances map[string]int
}

func (c *counter) ServiceInstance(h autowire.ServiceHandle) (any, error) {
	c.instances[h.Name]++
	return c.Container.ServiceInstance(h)
}

// newContainer registers the fixture services
func newContainer(t *testing.T) (*container.Container, *app.Logger, *app.WidgetFactory) {
	t.Helper()

	c := container.New()
	logger := app.NewLogger("main")
	factory := &app.WidgetFactory{}
	require.NoError(t, c.Register("logger", logger))
	require.NoError(t, c.Register("widgets", factory))
	require.NoError(t, c.Register("mailer", &app.MemoryMailer{}))
	require.NoError(t, c.Register("requests", &RequestLog{}))
	return c, logger, factory
}

func newInjector(t *testing.T, lookup autowire.ServiceLookup, opts ...autowire.Option) *autowire.Injector {
	t.Helper()

	inj, err := autowire.New(lookup, opts...)
	require.NoError(t, err)
	return inj
}

// hiddenLookup serves from a container without exposing its identity
type hiddenLookup struct {
	services *container.Container
	nilNamed string // service answered as nil
}

func (l *hiddenLookup) FindServiceType(t reflect.Type) (autowire.ServiceHandle, bool) {
	return l.services.FindServiceType(t)
}

func (l *hiddenLookup) ServiceInstance(h autowire.ServiceHandle) (any, error) {
	if h.Name == l.nilNamed {
		return nil, nil
	}
	return l.services.ServiceInstance(h)
}

func (l *hiddenLookup) ResolveTypeName(name string) (reflect.Type, bool) {
	return l.services.ResolveTypeName(name)
}
