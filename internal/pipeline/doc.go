// Package pipeline converts chapter markdown into HTML fragments for the
// in-process renderer.
//
// Stages:
//   - Markdown to HTML fragment via Goldmark (GFM, footnotes, chroma highlighting)
//   - Link rewriting: chapter links ending in .md point at the rendered .html page,
//     and relative paths can be re-based for pages that live at the book root
//
// Page layout (navigation, stylesheets, scripts) is applied afterwards by the
// theme's page template in the root mdbook package.
package pipeline
