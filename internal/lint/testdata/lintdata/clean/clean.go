package clean

import "example.com/lintdata/app"

type Service struct {
	Logger *app.Logger `autowire:""`
	Widget *app.Widget `autowire:"factory=example.com/lintdata/app.WidgetFactory::Create"`
	Short  *app.Widget `autowire:"factory=app.WidgetFactory"`
}
