package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteLinks adjusts relative references in rendered chapter HTML.
//
// Rewrites:
//   - a[href]: a relative path ending in .md now ends in .html (fragment and query kept)
//   - a[href], img[src]: when baseDir is non-empty, relative paths are joined onto
//     baseDir (slash separated), so a chapter from "guide/" still resolves when its
//     HTML is placed in a page at the book root
//
// Anchors, absolute paths and URLs with a scheme are left alone.
func RewriteLinks(htmlContent, baseDir string) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	baseDir = strings.Trim(path.Clean("/"+baseDir), "/")
	rewriteNode(doc, baseDir)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.A:
			rewriteAttr(n, "href", baseDir, true)
		case atom.Img:
			rewriteAttr(n, "src", baseDir, false)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, baseDir)
	}
}

func rewriteAttr(n *html.Node, attrName, baseDir string, chapterLink bool) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		p, suffix := splitSuffix(attr.Val)
		if chapterLink && strings.EqualFold(path.Ext(p), ".md") {
			p = p[:len(p)-len(".md")] + ".html"
		}
		if baseDir != "" {
			p = path.Join(baseDir, p)
		}
		n.Attr[i].Val = p + suffix
	}
}

// splitSuffix separates the path from a trailing "?query" or "#fragment".
func splitSuffix(ref string) (string, string) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i], ref[i:]
	}
	return ref, ""
}

// isRelativePath returns true if the reference points at a relative file.
func isRelativePath(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "?") {
		return false
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "\\") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
