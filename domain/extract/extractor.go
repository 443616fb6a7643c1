package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract decodes a message's MIME tree into plain text, HTML text and
// the image references found in the HTML. It never fails: a message
// without usable body parts yields empty strings.
//
// For multipart messages only the immediate children are scanned and the
// first part of each text type wins. Deeper nesting contributes nothing.
func Extract(msg *RawMessage) ExtractedContent {
	var content ExtractedContent

	body := msg.Body
	switch {
	case body.MIMEType == "text/plain":
		content.PlainText = string(body.Data)

	case body.MIMEType == "text/html":
		content.HTMLText = string(body.Data)
		content.PlainText = HTMLToText(content.HTMLText)

	case strings.HasPrefix(body.MIMEType, "multipart/"):
		for _, part := range body.Parts {
			switch part.MIMEType {
			case "text/plain":
				if content.PlainText == "" && len(part.Data) > 0 {
					content.PlainText = string(part.Data)
				}
			case "text/html":
				if content.HTMLText == "" && len(part.Data) > 0 {
					content.HTMLText = string(part.Data)
				}
			}
		}
		if content.PlainText == "" && content.HTMLText != "" {
			content.PlainText = HTMLToText(content.HTMLText)
		}
	}

	if content.HTMLText != "" {
		content.ImageRefs = ImageRefs(content.HTMLText)
	}

	return content
}

// blockAtoms are elements whose boundaries become line breaks when
// deriving plain text from HTML.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Table: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Blockquote: true, atom.Hr: true,
}

var (
	spaceRunRE = regexp.MustCompile(`[ \t]+`)
	lineRunRE  = regexp.MustCompile(`\n[ \t\n]*`)
)

// HTMLToText strips markup from an HTML document, using block-level
// element boundaries as line breaks. Script and style bodies are dropped.
func HTMLToText(htmlText string) string {
	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		// The tokenizer is lenient; a hard parse failure means the input
		// is not usable as HTML at all.
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			if blockAtoms[n.DataAtom] {
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			b.WriteString("\n")
		}
	}
	walk(root)

	text := strings.ReplaceAll(b.String(), "\u00a0", " ")
	text = spaceRunRE.ReplaceAllString(text, " ")
	text = lineRunRE.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// ImageRefs returns the src attribute of every img element in document
// order. Duplicates are preserved, empty sources are skipped.
func ImageRefs(htmlText string) []string {
	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	var refs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for _, attr := range n.Attr {
				if attr.Key == "src" && attr.Val != "" {
					refs = append(refs, attr.Val)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return refs
}
