package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"DeadlineAgent/internal/ports"
)

// Page adapts a parsed goquery document to the read-only rendered-tree
// capability the extractor consumes.
type Page struct {
	doc *goquery.Document
}

var _ ports.Page = (*Page)(nil)

// NewPage wraps a parsed document.
func NewPage(doc *goquery.Document) *Page {
	return &Page{doc: doc}
}

// FindBySelector returns one element per node matching the CSS selector.
func (p *Page) FindBySelector(css string) ([]ports.Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	return splitSelection(p.doc.Find(css)), nil
}

// FindByLinkText returns the first anchor whose visible text matches exactly.
func (p *Page) FindByLinkText(text string) (ports.Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	match := findAnchor(p.doc, text)
	if match.Length() == 0 {
		return nil, fmt.Errorf("no link with text %q", text)
	}
	return &element{sel: match}, nil
}

// findAnchor locates the first anchor whose trimmed visible text matches.
func findAnchor(doc *goquery.Document, text string) *goquery.Selection {
	return doc.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.TrimSpace(sel.Text()) == text
	}).First()
}

// FindByTextContains returns every node whose own text (excluding
// descendants) contains the substring, in document order.
func (p *Page) FindByTextContains(substr string) ([]ports.Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	matches := p.doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(ownText(sel), substr)
	})
	return splitSelection(matches), nil
}

// TextElements returns every node carrying its own text, in document order.
func (p *Page) TextElements() ([]ports.Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	matches := p.doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.TrimSpace(ownText(sel)) != ""
	})
	return splitSelection(matches), nil
}

type element struct {
	sel *goquery.Selection
}

var _ ports.Element = (*element)(nil)

// Text renders the element's visible text with newlines at block boundaries,
// the way a browser would report it.
func (e *element) Text() (string, error) {
	if e.sel == nil || e.sel.Length() == 0 {
		return "", fmt.Errorf("element detached")
	}

	var b strings.Builder
	for _, node := range e.sel.Nodes {
		renderText(&b, node)
	}
	return collapseBlankLines(b.String()), nil
}

// Parent returns the enclosing element, erroring at the document root.
func (e *element) Parent() (ports.Element, error) {
	if e.sel == nil {
		return nil, fmt.Errorf("element detached")
	}

	parent := e.sel.Parent()
	if parent.Length() == 0 {
		return nil, fmt.Errorf("element has no parent")
	}
	return &element{sel: parent}, nil
}

func splitSelection(sel *goquery.Selection) []ports.Element {
	elements := make([]ports.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}

// ownText concatenates the direct text-node children of a selection.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				b.WriteString(child.Data)
			}
		}
	}
	return b.String()
}

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "footer": {},
	"form": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hr": {}, "li": {}, "main": {}, "nav": {}, "ol": {},
	"p": {}, "section": {}, "table": {}, "td": {}, "th": {}, "tr": {},
	"ul": {},
}

func renderText(b *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		if text := strings.TrimSpace(node.Data); text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		_, block := blockTags[node.Data]
		if block {
			b.WriteString("\n")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderText(b, child)
		}
		if block {
			b.WriteString("\n")
		}
	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderText(b, child)
		}
	}
}

func collapseBlankLines(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
