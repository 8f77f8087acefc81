package nlp

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLToText strips markup from a feed description or content block.
// Script and style bodies are dropped and whitespace is collapsed.
func HTMLToText(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return collapseSpace(content)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return collapseSpace(content)
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			return
		}
		block := n.Type == html.ElementNode && blockElements[n.DataAtom]
		if block {
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			text.WriteString(" ")
		}
	}
	walk(doc)

	return collapseSpace(text.String())
}

// blockElements separate words; inline elements such as <b> or <a> do not
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.Blockquote: true, atom.Pre: true, atom.Figure: true, atom.Figcaption: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Aside: true, atom.Nav: true, atom.Main: true, atom.Img: true,
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
