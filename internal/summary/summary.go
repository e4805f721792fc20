// Package summary parses a book's SUMMARY.md table of contents.
//
// The accepted layout is:
//
//	# Summary
//
//	[Introduction](intro.md)
//
//	- [Getting Started](start.md)
//	    - [Setup](setup.md)
//	- [Draft chapter]()
//
//	---
//
//	[Contributors](contributors.md)
//
// Links before the first list are prefix affixes, list items are numbered
// chapters, links after a list are suffix affixes, and thematic breaks are
// spacers. Headings are ignored.
package summary

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileName is the table of contents file inside the source directory.
const FileName = "SUMMARY.md"

// Kind identifies the type of a summary entry.
type Kind int

const (
	Chapter Kind = iota
	Affix
	Spacer
)

func (k Kind) String() string {
	switch k {
	case Chapter:
		return "chapter"
	case Affix:
		return "affix"
	case Spacer:
		return "spacer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one table of contents item in document order.
type Entry struct {
	Kind   Kind
	Number []int // chapters only, e.g. [1 2] for "1.2."
	Title  string
	Path   string // empty for drafts and spacers
}

// Sentinel errors.
var (
	ErrEmptyTitle      = errors.New("summary entry has an empty title")
	ErrNestedAffix     = errors.New("summary list item has more than one link")
	ErrInvalidLinkPath = errors.New("summary link destination is not a relative path")
)

// Parse reads SUMMARY.md content and returns its entries in order.
func Parse(source []byte) ([]Entry, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	p := &parser{source: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := p.block(n); err != nil {
			return nil, err
		}
	}
	return p.entries, nil
}

type parser struct {
	source   []byte
	entries  []Entry
	topLevel int  // last top-level chapter number, continues across lists
	seenList bool // any numbered list seen, affixes after this are suffixes
}

func (p *parser) block(n gmast.Node) error {
	switch node := n.(type) {
	case *gmast.Heading:
		return nil
	case *gmast.ThematicBreak:
		p.entries = append(p.entries, Entry{Kind: Spacer})
		return nil
	case *gmast.List:
		p.seenList = true
		return p.list(node, nil)
	case *gmast.Paragraph:
		return p.affixes(node)
	default:
		return nil
	}
}

// affixes appends every link of a top-level paragraph as an unnumbered item.
func (p *parser) affixes(para *gmast.Paragraph) error {
	return gmast.Walk(para, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := n.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		entry, err := p.linkEntry(link)
		if err != nil {
			return gmast.WalkStop, err
		}
		entry.Kind = Affix
		p.entries = append(p.entries, entry)
		return gmast.WalkSkipChildren, nil
	})
}

// list numbers the items of a (possibly nested) list under parent.
func (p *parser) list(list *gmast.List, parent []int) error {
	count := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*gmast.ListItem)
		if !ok {
			continue
		}

		var n int
		if parent == nil {
			p.topLevel++
			n = p.topLevel
		} else {
			count++
			n = count
		}
		number := append(append([]int(nil), parent...), n)

		entry, nested, err := p.listItem(li)
		if err != nil {
			return err
		}
		entry.Kind = Chapter
		entry.Number = number
		p.entries = append(p.entries, entry)

		for _, sub := range nested {
			if err := p.list(sub, number); err != nil {
				return err
			}
		}
	}
	return nil
}

// listItem extracts the chapter title and path of li plus its nested lists.
func (p *parser) listItem(li *gmast.ListItem) (Entry, []*gmast.List, error) {
	var (
		entry  Entry
		found  bool
		nested []*gmast.List
	)
	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		if sub, ok := c.(*gmast.List); ok {
			nested = append(nested, sub)
			continue
		}

		var link *gmast.Link
		_ = gmast.Walk(c, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if l, ok := n.(*gmast.Link); ok && entering {
				link = l
				return gmast.WalkStop, nil
			}
			return gmast.WalkContinue, nil
		})

		switch {
		case link != nil && found:
			return Entry{}, nil, fmt.Errorf("%w: %q", ErrNestedAffix, entry.Title)
		case link != nil:
			e, err := p.linkEntry(link)
			if err != nil {
				return Entry{}, nil, err
			}
			entry, found = e, true
		case !found:
			entry.Title = plainText(c, p.source)
			found = entry.Title != ""
		}
	}

	if entry.Title == "" {
		return Entry{}, nil, ErrEmptyTitle
	}
	return entry, nested, nil
}

func (p *parser) linkEntry(link *gmast.Link) (Entry, error) {
	title := plainText(link, p.source)
	if title == "" {
		return Entry{}, ErrEmptyTitle
	}
	path, err := linkPath(string(link.Destination))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Title: title, Path: path}, nil
}

// linkPath turns a link destination into a chapter path relative to the source directory.
func linkPath(dest string) (string, error) {
	if dest == "" {
		return "", nil
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLinkPath, dest)
	}
	path, err := url.PathUnescape(u.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLinkPath, dest)
	}
	return strings.TrimPrefix(path, "./"), nil
}

// plainText concatenates the literal text below n.
func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		case *gmast.List:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
