package readme

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	// UntitledTable is used when no preceding element yields a title.
	UntitledTable = "Untitled Table"

	titleWindow        = 4
	minParagraphLength = 5
)

var headingMarker = regexp.MustCompile(`^#{2,6}\s+(.+)`)

// candidate is the view of a preceding element used for title inference.
type candidate struct {
	Tag  string
	Text string
}

// preceding returns up to limit element nodes that come before n in document
// order, nearest first. Ancestors of n and anything outside <body> are not
// part of the result.
func preceding(n *html.Node, limit int) []*html.Node {
	out := make([]*html.Node, 0, limit)
	for cur := n; cur != nil && !isBody(cur) && len(out) < limit; cur = cur.Parent {
		for sib := cur.PrevSibling; sib != nil && len(out) < limit; sib = sib.PrevSibling {
			out = appendReversed(out, sib, limit)
		}
	}
	return out
}

// appendReversed appends the element nodes of the subtree rooted at n in
// reverse document order.
func appendReversed(out []*html.Node, n *html.Node, limit int) []*html.Node {
	for c := n.LastChild; c != nil && len(out) < limit; c = c.PrevSibling {
		out = appendReversed(out, c, limit)
	}
	if n.Type == html.ElementNode && len(out) < limit {
		out = append(out, n)
	}
	return out
}

func isBody(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "body"
}

func candidatesOf(nodes []*html.Node) []candidate {
	out := make([]candidate, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, candidate{Tag: n.Data, Text: nodeText(n)})
	}
	return out
}

// inferTitle applies the title rules to candidates in scan order and returns
// the first match.
func inferTitle(candidates []candidate) string {
	for i, c := range candidates {
		if i >= titleWindow {
			break
		}
		switch c.Tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if c.Text != "" {
				return c.Text
			}
		case "p":
			if m := headingMarker.FindStringSubmatch(c.Text); m != nil {
				return strings.TrimSpace(m[1])
			}
			if utf8.RuneCountInString(c.Text) > minParagraphLength {
				return c.Text
			}
		}
	}
	return UntitledTable
}

// nodeText concatenates the text below n and collapses runs of whitespace.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
