package readme

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParse(t *testing.T, raw string) Document {
	t.Helper()
	doc, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func TestParseTableWithHeading(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<h2>Usage</h2><table><tr><td>x</td></tr><tr><td>y</td></tr></table>`)

	if len(doc.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(doc.Tables))
	}
	table := doc.Tables[0]
	if table.Title != "Usage" {
		t.Fatalf("unexpected title: %q", table.Title)
	}
	want := []string{"| x |", "| --- |", "| y |"}
	if strings.Join(table.Rows, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected rows: %q", table.Rows)
	}
	if doc.Body != "Usage" {
		t.Fatalf("table left in body: %q", doc.Body)
	}

	wantDoc := "Usage\n\n## Tables Extracted\n### Usage\n\n| x |\n| --- |\n| y |"
	if got := doc.String(); got != wantDoc {
		t.Fatalf("unexpected document:\n%s", got)
	}
}

func TestParseUntitledTable(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<table><tr><th>only</th></tr></table>`)
	if len(doc.Tables) != 1 || doc.Tables[0].Title != UntitledTable {
		t.Fatalf("expected untitled table, got %+v", doc.Tables)
	}
	if len(doc.Tables[0].Rows) != 1 || doc.Tables[0].Rows[0] != "| only |" {
		t.Fatalf("single-row table must not get a separator: %q", doc.Tables[0].Rows)
	}
}

func TestParseTitleWindowIsFourElements(t *testing.T) {
	t.Parallel()

	far := mustParse(t, `<h2>Far</h2><p>a</p><p>b</p><p>c</p><p>d</p><table><tr><td>1</td></tr></table>`)
	if far.Tables[0].Title != UntitledTable {
		t.Fatalf("heading outside window must be ignored, got %q", far.Tables[0].Title)
	}

	near := mustParse(t, `<h2>Near</h2><p>a</p><p>b</p><p>c</p><table><tr><td>1</td></tr></table>`)
	if near.Tables[0].Title != "Near" {
		t.Fatalf("expected Near, got %q", near.Tables[0].Title)
	}
}

func TestParseTitleFromParagraphs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"markdown heading", `<p>## Benchmarks</p><table><tr><td>1</td></tr></table>`, "Benchmarks"},
		{"long paragraph", `<p>Results on the test set</p><table><tr><td>1</td></tr></table>`, "Results on the test set"},
		{"short paragraph", `<p>Note</p><table><tr><td>1</td></tr></table>`, UntitledTable},
		{"nearest wins", `<h3>Metrics</h3><p>Long paragraph text</p><table><tr><td>1</td></tr></table>`, "Long paragraph text"},
		{"empty heading skipped", `<p>Long enough</p><h2> </h2><table><tr><td>1</td></tr></table>`, "Long enough"},
		{"unclosed paragraph", `<p>Benchmark results below:<table><tr><td>1</td></tr></table>`, "Benchmark results below:"},
	}

	for _, tc := range cases {
		doc := mustParse(t, tc.raw)
		if len(doc.Tables) != 1 {
			t.Fatalf("%s: expected one table, got %d", tc.name, len(doc.Tables))
		}
		if doc.Tables[0].Title != tc.want {
			t.Fatalf("%s: want %q, got %q", tc.name, tc.want, doc.Tables[0].Title)
		}
	}
}

func TestParseSeparatorFollowsFirstRowColumns(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<table><tr><th>Model</th><th>Score</th></tr><tr><td>a|b</td><td>1</td></tr></table>`)
	want := []string{"| Model | Score |", "| --- | --- |", `| a\|b | 1 |`}
	if strings.Join(doc.Tables[0].Rows, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected rows: %q", doc.Tables[0].Rows)
	}
}

func TestParseNestedTablesStayInCell(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<table><tr><td>outer<table><tr><td>inner</td></tr></table></td></tr></table>`)
	if len(doc.Tables) != 1 {
		t.Fatalf("expected nested table to be folded into its parent, got %d tables", len(doc.Tables))
	}
	if !strings.Contains(doc.Tables[0].Rows[0], "inner") {
		t.Fatalf("inner text lost: %q", doc.Tables[0].Rows)
	}
}

func TestParseLinks(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<p>See <a href="https://example.org/docs">the docs!</a> now.</p>`+
		`<p><a href="https://example.org/badge"><img src="badge.svg"></a></p>`+
		`<p><a href="">Empty target</a></p>`)

	if len(doc.Links) != 1 {
		t.Fatalf("expected 1 link, got %+v", doc.Links)
	}
	if doc.Links[0].Label != "the docs" || doc.Links[0].Target != "https://example.org/docs" {
		t.Fatalf("unexpected link: %+v", doc.Links[0])
	}
	if doc.Body != "See the docs! now.\nEmpty target" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
	if !strings.HasSuffix(doc.String(), "## Links\n- **the docs**: https://example.org/docs") {
		t.Fatalf("links section missing:\n%s", doc.String())
	}
}

func TestParseLinkLabelKeepsUnicodeWords(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<a href="https://example.org">Démo & Tests (beta)</a>`)
	if len(doc.Links) != 1 || doc.Links[0].Label != "Démo & Tests beta" {
		t.Fatalf("unexpected links: %+v", doc.Links)
	}
}

func TestParseRemovesNoise(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<div align="center">badge row</div><style>.x{color:red}</style>`+
		`<script>alert(1)</script><p>Keep me</p><img src="x.png"><picture><source srcset="a.png">pic</picture>`+
		`<p>And me</p>`)

	if doc.Body != "Keep me\nAnd me" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestParsePreservesBlockBoundaries(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<h1>Title</h1><p>Para <b>one</b></p><ul><li>a</li><li>b</li></ul>line<br>break`)
	if doc.Body != "Title\nPara one\na\nb\nline\nbreak" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestDocumentOmitsEmptySections(t *testing.T) {
	t.Parallel()

	got := mustParse(t, "# Plain model card\n\nNo markup here.").String()
	if strings.Contains(got, tablesHeading) || strings.Contains(got, linksHeading) {
		t.Fatalf("empty sections must be omitted:\n%s", got)
	}
	if got != "# Plain model card\n\nNo markup here." {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)
	raw := `<h2>Usage</h2><table><tr><td>x</td></tr><tr><td>y</td></tr></table>` +
		`<p>Read <a href="https://example.org">the guide</a></p>`

	first := n.Normalize("org/model", raw)
	second := n.Normalize("org/model", first)
	if first != second {
		t.Fatalf("normalize is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestNormalizeDecodesEntitiesOncePerPass(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(nil)

	first := n.Normalize("org/model", "&amp;copy here")
	if first != "&copy here" {
		t.Fatalf("unexpected first pass: %q", first)
	}
	// Entity-like text left by one pass is markup to the next.
	if second := n.Normalize("org/model", first); second != "© here" {
		t.Fatalf("unexpected second pass: %q", second)
	}
}

func TestNormalizePassesPlaceholderThrough(t *testing.T) {
	t.Parallel()

	placeholder := "README not found for model: `org/model` (Status: 404)"
	if got := NewNormalizer(nil).Normalize("org/model", placeholder); got != placeholder {
		t.Fatalf("placeholder altered: %q", got)
	}
}

func TestNormalizeStripsNulBytes(t *testing.T) {
	t.Parallel()

	got := NewNormalizer(nil).Normalize("org/model", "safe\x00text")
	if strings.ContainsRune(got, 0) {
		t.Fatalf("NUL byte survived: %q", got)
	}
	if got != "safetext" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPrecedingSkipsAncestorsAndWalksBackwards(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<h2>Head</h2><section><p>Intro <b>bold</b></p><table><tr><td>1</td></tr></table></section>`))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	table := doc.Find("table").Get(0)
	got := candidatesOf(preceding(table, 10))

	want := []string{"b", "p", "h2"}
	if len(got) != len(want) {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	for i := range want {
		if got[i].Tag != want[i] {
			t.Fatalf("position %d: want %s, got %+v", i, want[i], got)
		}
	}
}

func TestInferTitleFirstMatchWins(t *testing.T) {
	t.Parallel()

	got := inferTitle([]candidate{
		{Tag: "span", Text: "ignored element"},
		{Tag: "p", Text: "#### Speed"},
		{Tag: "h2", Text: "Heading"},
	})
	if got != "Speed" {
		t.Fatalf("expected Speed, got %q", got)
	}

	if got := inferTitle(nil); got != UntitledTable {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestFailureMessage(t *testing.T) {
	t.Parallel()

	msg := FailureMessage("org/a", errors.New("boom"))
	if msg != "⚠️ Error fetching or processing README for `org/a`:\nboom" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !IsFailure(msg) || IsFailure("plain text") {
		t.Fatalf("IsFailure misclassified")
	}
}
