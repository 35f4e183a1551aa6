// Package autowirefx wires a container and an injector into an fx
// application. Services reach the container through the
// "autowire_services" value group.
package autowirefx

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/toyz/autowire/pkg/autowire"
	"github.com/toyz/autowire/pkg/container"
)

// ServicesGroup is the value group feeding the container
const ServicesGroup = "autowire_services"

// Registration is a named service bound for the container
type Registration struct {
	Name    string
	Service any
	Options []container.RegisterOption
}

// ContainerParams are the inputs of NewContainer
type ContainerParams struct {
	fx.In

	Services []Registration `group:"autowire_services"`
}

// InjectorParams are the inputs of NewInjector
type InjectorParams struct {
	fx.In

	Container *container.Container
	Config    *autowire.Config `optional:"true"`
	Logger    *slog.Logger     `optional:"true"`
	Store     autowire.Store   `optional:"true"`
}

// Module provides *container.Container and *autowire.Injector
var Module = fx.Module("autowire",
	fx.Provide(NewContainer),
	fx.Provide(NewInjector),
)

// NewContainer registers every grouped service
func NewContainer(p ContainerParams) (*container.Container, error) {
	c := container.New()
	for _, reg := range p.Services {
		if err := c.Register(reg.Name, reg.Service, reg.Options...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewInjector builds an injector over the container. Config settings are
// applied after the logger and store.
func NewInjector(p InjectorParams) (*autowire.Injector, error) {
	var opts []autowire.Option
	if p.Logger != nil {
		opts = append(opts, autowire.WithLogger(p.Logger))
	}
	if p.Store != nil {
		opts = append(opts, autowire.WithStore(p.Store))
	}

	cfgOpts, err := p.Config.Options(p.Container)
	if err != nil {
		return nil, err
	}
	return autowire.New(p.Container, append(opts, cfgOpts...)...)
}

// Service provides the result of ctor to the graph and registers it in
// the container under name. ctor is any fx constructor returning T.
func Service[T any](name string, ctor any, opts ...container.RegisterOption) fx.Option {
	return fx.Options(
		fx.Provide(ctor),
		fx.Provide(fx.Annotate(
			func(svc T) Registration {
				return Registration{Name: name, Service: svc, Options: opts}
			},
			fx.ResultTags(`group:"`+ServicesGroup+`"`),
		)),
	)
}

// Supply registers an existing value under name without exposing it to
// the graph
func Supply(name string, value any, opts ...container.RegisterOption) fx.Option {
	return fx.Provide(fx.Annotate(
		func() Registration {
			return Registration{Name: name, Service: value, Options: opts}
		},
		fx.ResultTags(`group:"`+ServicesGroup+`"`),
	))
}
