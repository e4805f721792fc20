package mdbook

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemKind identifies what a BookItem represents.
type ItemKind int

const (
	// KindChapter is a numbered chapter.
	KindChapter ItemKind = iota
	// KindAffix is an unnumbered chapter before or after the numbered ones.
	KindAffix
	// KindSpacer separates groups of chapters and has no content.
	KindSpacer
)

func (k ItemKind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindAffix:
		return "affix"
	case KindSpacer:
		return "spacer"
	default:
		return "ItemKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Chapter is the content reference of a chapter or affix.
type Chapter struct {
	Title string
	// Path is relative to the book source directory. Empty means the chapter
	// is a draft with no renderable content.
	Path string
}

// BookItem is one entry of the table of contents.
type BookItem struct {
	Kind    ItemKind
	Number  []int // section path, chapters only
	Chapter Chapter
}

// NewChapter returns a numbered chapter item.
func NewChapter(number []int, title, path string) BookItem {
	return BookItem{
		Kind:    KindChapter,
		Number:  append([]int(nil), number...),
		Chapter: Chapter{Title: title, Path: path},
	}
}

// NewAffix returns an unnumbered chapter item.
func NewAffix(title, path string) BookItem {
	return BookItem{Kind: KindAffix, Chapter: Chapter{Title: title, Path: path}}
}

// Spacer returns a separator item.
func Spacer() BookItem {
	return BookItem{Kind: KindSpacer}
}

// SectionName renders the section number as "1.2.3". Empty for affixes and spacers.
func (i BookItem) SectionName() string {
	if i.Kind != KindChapter || len(i.Number) == 0 {
		return ""
	}
	parts := make([]string, len(i.Number))
	for j, n := range i.Number {
		parts[j] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Depth is the nesting level used to shift headings: the number of section
// components for chapters, 0 otherwise.
func (i BookItem) Depth() int {
	if i.Kind != KindChapter {
		return 0
	}
	return len(i.Number)
}

// HasContent reports whether the item refers to a file to render.
func (i BookItem) HasContent() bool {
	return i.Kind != KindSpacer && i.Chapter.Path != ""
}

// ParseSectionNumber parses a dotted section number such as "1.2." or "1.2".
// Each component must be a positive integer.
func ParseSectionNumber(s string) ([]int, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), ".")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSectionName, s)
	}
	parts := strings.Split(trimmed, ".")
	number := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSectionName, s)
		}
		number[i] = n
	}
	return number, nil
}

// Book is the input of every renderer.
type Book struct {
	Root        string // book root; additional assets under it keep their relative path
	Source      string // directory holding the chapter files
	Destination string // build output directory
	ThemeDir    string // optional theme override directory

	Title       string
	Authors     []string
	Description string
	Language    string

	AdditionalCSS []string // stylesheet paths, relative to Root or absolute
	AdditionalJS  []string // script paths, relative to Root or absolute

	Items []BookItem // table of contents order
}
