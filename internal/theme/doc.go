// Package theme provides the stylesheets, favicon and page template shared by the
// book renderers.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in defaults compiled into the binary
//	    ├── FilesystemLoader  - files from a user theme directory
//	    └── Resolver          - combines both with custom-first fallback
//
// Built-in syntax highlighting stylesheets are generated from chroma styles, so they
// match the class names emitted by the in-process HTML renderer.
//
// Resolver falls back per file: a theme directory that only contains book.css keeps
// the built-in favicon, highlight stylesheets and page template.
//
// # Directory Structure
//
//	{themeDir}/
//	├── book.css
//	├── favicon.png
//	├── highlight.css
//	├── tomorrow-night.css
//	├── ayu-highlight.css
//	└── page.html
//
// # Security
//
// File names are validated and FilesystemLoader resolves symlinks and verifies paths
// stay within the theme directory.
package theme
