package meta

import (
	"strings"

	"golang.org/x/net/html"
)

// extractor pulls one candidate value out of a parsed document.
// Returns "" when the document has nothing to offer.
type extractor func(doc *html.Node) string

// Each tier is tried in order; the first non-empty value wins.
var (
	titleExtractors = []extractor{
		elementText("title"),
		metaProperty("og:title"),
	}

	descriptionExtractors = []extractor{
		metaName("description"),
		metaProperty("og:description"),
	}

	iconExtractors = []extractor{
		linkRel("icon"),
		linkRel("shortcut icon"),
	}
)

// firstMatch applies extractors in order and returns the first hit.
func firstMatch(doc *html.Node, extractors []extractor) string {
	for _, extract := range extractors {
		if v := extract(doc); v != "" {
			return v
		}
	}
	return ""
}

// elementText extracts the text content of the first element with the
// given tag name.
func elementText(tag string) extractor {
	return func(doc *html.Node) string {
		n := findElement(doc, func(n *html.Node) bool {
			return strings.EqualFold(n.Data, tag)
		})
		if n == nil {
			return ""
		}
		return getTextContent(n)
	}
}

// metaName extracts the content of <meta name="..." content="...">.
func metaName(name string) extractor {
	return metaAttr("name", name)
}

// metaProperty extracts the content of <meta property="..." content="...">,
// the form Open Graph tags use.
func metaProperty(property string) extractor {
	return metaAttr("property", property)
}

func metaAttr(attr, want string) extractor {
	return func(doc *html.Node) string {
		n := findElement(doc, func(n *html.Node) bool {
			return strings.EqualFold(n.Data, "meta") &&
				strings.EqualFold(getAttr(n, attr), want)
		})
		if n == nil {
			return ""
		}
		return strings.TrimSpace(getAttr(n, "content"))
	}
}

// linkRel extracts the href of <link rel="..."> matching rel exactly
// (case-insensitive).
func linkRel(rel string) extractor {
	return func(doc *html.Node) string {
		n := findElement(doc, func(n *html.Node) bool {
			return strings.EqualFold(n.Data, "link") &&
				strings.EqualFold(getAttr(n, "rel"), rel)
		})
		if n == nil {
			return ""
		}
		return strings.TrimSpace(getAttr(n, "href"))
	}
}

// findElement returns the first element node matching pred in document
// order, or nil.
func findElement(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
