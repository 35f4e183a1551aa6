package app

type Logger struct{}

type Widget struct{}

type WidgetFactory struct{}

func (WidgetFactory) Create() *Widget { return &Widget{} }

func (*WidgetFactory) Reset() {}

type Base struct {
	Logger *Logger `autowire:""`
}

type Home struct {
	Base
	Widget *Widget `autowire:"factory=WidgetFactory"`
	Named  any     `autowire:"" type:"Logger"`
}

type Miscased struct {
	Logger *Logger `Autowire:""`
}

type Hidden struct {
	logger *Logger `autowire:""`
}

func (h Hidden) Logger() *Logger { return h.logger }

type Unknowns struct {
	Thing  any     `autowire:"" type:"Nowhere"`
	Widget *Widget `autowire:"factory=WidgetFactory::Assemble"`
	Reset  *Widget `autowire:"factory=WidgetFactory::Reset"`
	Rooted any     `autowire:"" type:"example.com/lintdata/app.Gone"`
}

type Untyped struct {
	Thing any `autowire:""`
}

type Plain struct {
	Name    string `json:"name"`
	Enabled bool   `json:"autowire" yaml:x`
}
