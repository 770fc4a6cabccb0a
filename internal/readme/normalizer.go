// Package readme turns raw model README markup into a clean text document
// suitable as an LLM prompt payload.
package readme

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"ModelScout/internal/domain"
)

const (
	tablesHeading = "## Tables Extracted"
	linksHeading  = "## Links"
	previewWidth  = 160
	doctype       = "<!DOCTYPE html>"
	failurePrefix = "⚠️ Error fetching or processing README for"
)

var labelNoise = regexp.MustCompile(`[^\p{L}\p{N}_\s&-]`)

// Table is a Markdown rendition of one extracted table.
type Table struct {
	Title string
	Rows  []string
}

// Link is one hyperlink lifted out of the body.
type Link struct {
	Label  string
	Target string
}

// Document is the structured result of parsing a README.
type Document struct {
	Body   string
	Tables []Table
	Links  []Link
}

// String assembles the body, the tables section and the links section.
// Empty sections are omitted.
func (d Document) String() string {
	var sb strings.Builder
	sb.WriteString(d.Body)

	if len(d.Tables) > 0 {
		blocks := make([]string, 0, len(d.Tables))
		for _, t := range d.Tables {
			blocks = append(blocks, "### "+t.Title+"\n\n"+strings.Join(t.Rows, "\n"))
		}
		sb.WriteString("\n\n" + tablesHeading + "\n")
		sb.WriteString(strings.Join(blocks, "\n\n"))
	}

	if len(d.Links) > 0 {
		lines := make([]string, 0, len(d.Links))
		for _, l := range d.Links {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", l.Label, l.Target))
		}
		sb.WriteString("\n\n" + linksHeading + "\n")
		sb.WriteString(strings.Join(lines, "\n"))
	}

	return sb.String()
}

// Normalizer wraps Parse with the "always return a string" contract.
type Normalizer struct {
	policy *bluemonday.Policy
	logger *slog.Logger
}

// NewNormalizer builds a Normalizer; log may be nil.
func NewNormalizer(log *slog.Logger) *Normalizer {
	return &Normalizer{policy: newNoisePolicy(), logger: log}
}

// Normalize cleans raw README markup for modelID. Placeholders for missing
// READMEs pass through untouched; parse failures come back as a descriptive
// message instead of an error.
func (n *Normalizer) Normalize(modelID, raw string) (out string) {
	if IsPlaceholder(raw) {
		return raw
	}

	defer func() {
		if r := recover(); r != nil {
			out = FailureMessage(modelID, fmt.Errorf("panic: %v", r))
		}
	}()

	doc, err := n.parse(raw)
	if err != nil {
		return FailureMessage(modelID, err)
	}

	out = doc.String()
	if n.logger != nil {
		n.logger.Debug("readme normalized",
			"model", modelID,
			"tables", len(doc.Tables),
			"links", len(doc.Links),
			"preview", runewidth.Truncate(strings.ReplaceAll(out, "\n", " "), previewWidth, "…"))
	}
	return out
}

// Parse runs table extraction, link extraction, noise removal and body
// flattening over raw, in that order.
func Parse(raw string) (Document, error) {
	return (&Normalizer{policy: newNoisePolicy()}).parse(raw)
}

// IsPlaceholder reports whether raw is the stand-in for an unavailable README.
func IsPlaceholder(raw string) bool {
	return strings.HasPrefix(raw, domain.ReadmePlaceholderPrefix)
}

func (n *Normalizer) parse(raw string) (Document, error) {
	raw = strings.ToValidUTF8(strings.ReplaceAll(raw, "\x00", ""), "\uFFFD")

	// Standards mode: a table closes an open paragraph instead of nesting in it.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(doctype + raw))
	if err != nil {
		return Document{}, fmt.Errorf("parse markup: %w", err)
	}

	var result Document
	result.Tables = extractTables(doc)
	result.Links = extractLinks(doc)

	body, err := doc.Find("body").Html()
	if err != nil {
		return Document{}, fmt.Errorf("render body: %w", err)
	}

	cleaned, err := html.Parse(strings.NewReader(doctype + n.policy.Sanitize(body)))
	if err != nil {
		return Document{}, fmt.Errorf("parse sanitized body: %w", err)
	}
	if bodyNode := findElement(cleaned, "body"); bodyNode != nil {
		result.Body = flatten(bodyNode)
	}

	return result, nil
}

// extractTables converts every top-level table to Markdown and removes it.
// Tables nested in a cell end up as text of that cell.
func extractTables(doc *goquery.Document) []Table {
	var tables []Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		if !attached(node) {
			return
		}

		tables = append(tables, Table{
			Title: inferTitle(candidatesOf(preceding(node, titleWindow))),
			Rows:  tableRows(sel),
		})
		sel.Remove()
	})
	return tables
}

func tableRows(table *goquery.Selection) []string {
	own := table.Get(0)
	var (
		rows    []string
		columns int
	)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Closest("table").Get(0) != own {
			return
		}
		var cells []string
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.ReplaceAll(nodeText(cell.Get(0)), "|", `\|`))
		})
		if len(rows) == 0 {
			columns = len(cells)
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
	})

	if len(rows) >= 2 {
		if columns < 1 {
			columns = 1
		}
		dashes := make([]string, columns)
		for i := range dashes {
			dashes[i] = "---"
		}
		separator := "| " + strings.Join(dashes, " | ") + " |"
		rows = append(rows[:1], append([]string{separator}, rows[1:]...)...)
	}
	return rows
}

// extractLinks records every anchor with a target and replaces the anchor by
// its visible text.
func extractLinks(doc *goquery.Document) []Link {
	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := nodeText(sel.Get(0))
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)

		label := strings.TrimSpace(labelNoise.ReplaceAllString(text, ""))
		if label != "" && href != "" {
			links = append(links, Link{Label: label, Target: href})
		}

		if text == "" {
			sel.Remove()
			return
		}
		sel.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: text})
	})
	return links
}

// attached reports whether n is still connected to its document root.
func attached(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// FailureMessage is the text handed back in place of a README that could not
// be fetched or processed.
func FailureMessage(modelID string, err error) string {
	return fmt.Sprintf("%s `%s`:\n%v", failurePrefix, modelID, err)
}

// IsFailure reports whether s came from FailureMessage.
func IsFailure(s string) bool {
	return strings.HasPrefix(s, failurePrefix)
}
