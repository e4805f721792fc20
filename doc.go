// Package mdbook builds books written as a tree of Markdown chapters.
//
// # Quick Start
//
// Load a book from its root directory, pick a renderer, and render:
//
//	book, err := mdbook.Load("path/to/book")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := mdbook.NewRenderer("pandoc", mdbook.WithFormat("epub"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Render(ctx, book); err != nil {
//	    log.Fatal(err)
//	}
//
// The book's table of contents is read from <src>/SUMMARY.md and settings from an
// optional book.yaml at the root.
//
// # Renderers
//
// Three back-ends implement [Renderer]:
//
//   - pandoc: stages every chapter with its headings shifted to the chapter's depth,
//     publishes theme assets, then invokes an external converter (pandoc) once over
//     the ordered manifest to produce book.<format>
//   - html: renders each chapter in-process with Goldmark into a themed page,
//     plus index.html and a single-page print.html
//   - print: runs the html renderer, then prints print.html to book.pdf with
//     headless Chrome (go-rod)
//
// Every render is a full rebuild: the destination directory is emptied first.
//
// # Configuration
//
// Use functional options to customize a renderer:
//
//	r, err := mdbook.NewRenderer("pandoc",
//	    mdbook.WithLogger(logger),
//	    mdbook.WithTimeout(2*time.Minute),
//	    mdbook.WithPDFEngine("lualatex"),
//	    mdbook.WithMetrics(prometheus.NewRegistry()),
//	)
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go; match them with errors.Is:
//
//	if errors.Is(err, mdbook.ErrConverterNotFound) {
//	    // pandoc is not installed
//	}
package mdbook
