// Package regseek is the Composition Root for the RegSeek pipeline.
//
// RegSeek curates Windows registry forensic artifacts. Each artifact is a YAML
// document in a category directory; the pipeline validates every document
// against a content schema and the anti-checklist methodology, then compiles
// the valid ones into a single dataset for the search front-end.
//
// The core (pkg/core) is isolated from storage: the default adapter reads the
// corpus from the filesystem and optionally records the git revision it was
// built from.
//
// Usage:
//
//	app, err := regseek.New(".",
//		regseek.WithStrictHives(true),
//		regseek.WithLogger(logger),
//	)
//
//	outcome, err := app.Service.Build(ctx)
package regseek
