package readme

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// noiseElements are dropped together with everything inside them.
// Void elements such as img and source are not listed: they are simply not
// allow-listed, which drops them without touching following content.
var noiseElements = []string{
	"div", "style", "script", "noscript", "picture",
	"svg", "iframe", "video", "audio", "canvas", "template",
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"ul": true,
}

var inlineElements = []string{
	"a", "abbr", "b", "code", "del", "em", "i", "ins", "kbd", "mark",
	"s", "small", "span", "strong", "sub", "sup", "u", "br",
}

// newNoisePolicy keeps structural and inline text elements and removes
// presentation-only constructs along with their content.
func newNoisePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	for tag := range blockElements {
		p.AllowElements(tag)
	}
	p.AllowElements(inlineElements...)
	p.SkipElementsContent(noiseElements...)
	return p
}

// flatten renders the text of n, turning block boundaries and <br> into line
// breaks. Text nodes are copied verbatim.
func flatten(n *html.Node) string {
	var sb strings.Builder
	lineBreak := func() {
		if sb.Len() == 0 {
			return
		}
		if s := sb.String(); s[len(s)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.CommentNode, html.DoctypeNode:
			return
		case html.ElementNode:
			if n.Data == "br" {
				sb.WriteByte('\n')
				return
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			lineBreak()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			lineBreak()
		}
	}
	walk(n)

	return strings.TrimSpace(sb.String())
}

// findElement returns the first element named tag in a depth-first walk.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
