package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"ModelScout/internal/domain"
	"ModelScout/internal/ranker"
)

var knownTags = []string{
	"text-to-image",
	"text-generation",
	"image-segmentation",
	"text-classification",
	"summarization",
	"image-to-text",
	"question-answering",
}

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeSource struct {
	records map[string][]domain.ModelRecord
	err     error
	tags    []string
}

func (f *fakeSource) ListModels(_ context.Context, tag string) ([]domain.ModelRecord, error) {
	f.tags = append(f.tags, tag)
	if f.err != nil {
		return nil, f.err
	}
	return f.records[tag], nil
}

type fakeReadmes struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeReadmes) FetchReadme(_ context.Context, id string) (string, error) {
	if err := f.errs[id]; err != nil {
		return "", err
	}
	return f.bodies[id], nil
}

type fakeChat struct {
	tag     string
	tagErr  error
	reply   func(prompt string) (string, error)
	prompts []string
}

func (f *fakeChat) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if strings.HasPrefix(prompt, "Classify") {
		return f.tag, f.tagErr
	}
	if f.reply == nil {
		return "ok", nil
	}
	return f.reply(prompt)
}

func record(id string, likes int64, ageDays int) domain.ModelRecord {
	return domain.ModelRecord{
		ID:        id,
		CreatedAt: testNow.Add(-time.Duration(ageDays) * 24 * time.Hour).Format(time.RFC3339Nano),
		Likes:     likes,
		Downloads: 1000,
	}
}

func newExplorer(src *fakeSource, readmes *fakeReadmes, chat *fakeChat) *Explorer {
	deps := ExplorerDeps{
		Source:     src,
		Readmes:    readmes,
		Ranker:     ranker.New(testclock.NewClock(testNow), ranker.DefaultOptions()),
		Tags:       knownTags,
		DefaultTag: "text-to-image",
	}
	if chat != nil {
		deps.Chat = chat
	}
	return NewExplorer(deps)
}

func TestClassifyTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		answer string
		err    error
		want   string
	}{
		{name: "exact", answer: "summarization", want: "summarization"},
		{name: "decorated", answer: " `Text-Generation`.\n", want: "text-generation"},
		{name: "unknown", answer: "audio-to-audio", want: "text-to-image"},
		{name: "failure", err: errors.New("timeout"), want: "text-to-image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newExplorer(&fakeSource{}, &fakeReadmes{}, &fakeChat{tag: tc.answer, tagErr: tc.err})
			if got := e.ClassifyTag(context.Background(), "query"); got != tc.want {
				t.Fatalf("ClassifyTag = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyTagWithoutLLM(t *testing.T) {
	t.Parallel()

	e := newExplorer(&fakeSource{}, &fakeReadmes{}, nil)
	if got := e.ClassifyTag(context.Background(), "draw a cat"); got != "text-to-image" {
		t.Fatalf("expected default tag, got %q", got)
	}
}

func TestSearchUsesInferredTag(t *testing.T) {
	t.Parallel()

	src := &fakeSource{records: map[string][]domain.ModelRecord{
		"text-generation": {
			record("org/old", 900, 400),
			record("org/a", 300, 10),
			record("org/b", 600, 10),
			record("org/unloved", 10, 1),
		},
	}}
	e := newExplorer(src, &fakeReadmes{}, &fakeChat{tag: "text-generation"})

	results := e.Search(context.Background(), "chat bot", 5)
	if len(src.tags) != 1 || src.tags[0] != "text-generation" {
		t.Fatalf("unexpected listing tags: %v", src.tags)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "org/b" || results[1].ID != "org/a" {
		t.Fatalf("unexpected order: %+v", results)
	}
	if results[0].CanonicalReference != "hf://model/org/b" {
		t.Fatalf("unexpected reference: %s", results[0].CanonicalReference)
	}
}

func TestSearchRetrievalFailureIsEmpty(t *testing.T) {
	t.Parallel()

	e := newExplorer(&fakeSource{err: errors.New("dns")}, &fakeReadmes{}, &fakeChat{tag: "summarization"})
	results := e.Search(context.Background(), "q", 5)
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil ranking, got %#v", results)
	}
}

func TestSummarizeNoModels(t *testing.T) {
	t.Parallel()

	e := newExplorer(&fakeSource{}, &fakeReadmes{}, &fakeChat{tag: "summarization"})
	if got := e.Summarize(context.Background(), "q", 2); got != NoModelsMessage {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSummarizeCoversEveryModel(t *testing.T) {
	t.Parallel()

	src := &fakeSource{records: map[string][]domain.ModelRecord{
		"text-to-image": {record("org/a", 900, 5), record("org/b", 500, 5), record("org/c", 300, 5)},
	}}
	readmes := &fakeReadmes{
		bodies: map[string]string{
			"org/a": "<h1>Model A</h1><p>Fast diffusion.</p>",
			"org/c": "<p>Model C card</p>",
		},
		errs: map[string]error{
			"org/b": &domain.ReadmeUnavailableError{ModelID: "org/b", Status: 404},
		},
	}
	chat := &fakeChat{tag: "text-to-image", reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "org/c") {
			return "", errors.New("quota exceeded")
		}
		return "A summary.", nil
	}}
	e := newExplorer(src, readmes, chat)

	got := e.Summarize(context.Background(), "images", 3)
	want := strings.Join([]string{
		"for Model: org/a\nA summary.",
		"for Model: org/b\n⚠️ README not found for model: `org/b` (Status: 404)",
		"for Model: org/c\n⚠️ Failed to generate summary for model org/c: quota exceeded",
	}, "\n\n")
	if got != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", got, want)
	}

	var readmePrompt string
	for _, p := range chat.prompts {
		if strings.Contains(p, "org/a") {
			readmePrompt = p
		}
	}
	if !strings.Contains(readmePrompt, "Model A\nFast diffusion.") {
		t.Fatalf("README was not normalized before prompting: %q", readmePrompt)
	}
}

func TestInstallInstructionsReportsFetchErrors(t *testing.T) {
	t.Parallel()

	src := &fakeSource{records: map[string][]domain.ModelRecord{
		"text-to-image": {record("org/a", 900, 5)},
	}}
	readmes := &fakeReadmes{errs: map[string]error{"org/a": errors.New("connection reset")}}
	e := newExplorer(src, readmes, &fakeChat{tag: "text-to-image"})

	got := e.InstallInstructions(context.Background(), "q", 2)
	if !strings.HasPrefix(got, "for Model: org/a\n⚠️ Error fetching or processing README for `org/a`:\n") {
		t.Fatalf("unexpected output: %q", got)
	}
	if !strings.Contains(got, "connection reset") {
		t.Fatalf("missing cause: %q", got)
	}
}

func TestInstallInstructionsWithoutLLM(t *testing.T) {
	t.Parallel()

	src := &fakeSource{records: map[string][]domain.ModelRecord{
		"text-to-image": {record("org/a", 900, 5)},
	}}
	readmes := &fakeReadmes{bodies: map[string]string{"org/a": "pip install a"}}
	e := newExplorer(src, readmes, nil)

	got := e.InstallInstructions(context.Background(), "q", 2)
	want := "for Model: org/a\n⚠️ Failed to generate installation instructions for model org/a: " + domain.ErrLLMUnavailable.Error()
	if got != want {
		t.Fatalf("unexpected output: %q", got)
	}
}
