// Package autowire injects services into struct fields marked with an
// autowire struct tag.
//
// Objects created outside the container (a controller built per request,
// a UI component) declare their dependencies as fields:
//
//	type HomeController struct {
//		autowire.Component
//
//		Logger  *app.Logger `autowire:""`
//		Widget  *app.Widget `autowire:"factory=app.WidgetFactory::Create"`
//		Mailer  app.Mailer  `autowire:"" type:"app.Mailer"`
//	}
//
// Injector.Inject fills those fields from a ServiceLookup. A field is
// either looked up by type (its static type, or the type named by the
// optional type tag) or produced by calling a method of a factory service,
// passing the remaining tag arguments.
//
// Type references in tags may be rooted (example.com/app.Logger), or
// relative (Logger, app.Logger) in which case they are tried as written
// and then relative to the package declaring the field.
//
// The parsed and validated plan of every struct type is cached in a Store
// and reused until one of the plan's dependencies changes: the shape or
// source file of a scanned struct, or the revision of the service lookup.
package autowire
