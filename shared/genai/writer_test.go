package genai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/domain"
)

// cannedGenerator returns a fixed text response or error.
type cannedGenerator struct {
	text string
	err  error
	last string
}

func (c *cannedGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			c.last = string(t)
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(c.text)}}},
		},
	}, nil
}

func newCannedWriter(gen *cannedGenerator) *Writer {
	return &Writer{generator: gen, modelName: DefaultModel}
}

func TestGeneratePost_ParsesPlainJSON(t *testing.T) {
	gen := &cannedGenerator{text: `{"title": "작은 성취", "content": "오늘도 수고했습니다."}`}
	w := newCannedWriter(gen)

	draft, err := w.GeneratePost(context.Background(), "", "작은 성취")
	if err != nil {
		t.Fatalf("GeneratePost() error = %v", err)
	}
	if draft.Title != "작은 성취" || draft.Content != "오늘도 수고했습니다." {
		t.Errorf("draft = %+v", draft)
	}
}

func TestGeneratePost_StripsCodeFence(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"json fence", "```json\n{\"title\": \"t\", \"content\": \"c\"}\n```"},
		{"bare fence", "```\n{\"title\": \"t\", \"content\": \"c\"}\n```"},
		{"no fence", "{\"title\": \"t\", \"content\": \"c\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newCannedWriter(&cannedGenerator{text: tt.text})
			draft, err := w.GeneratePost(context.Background(), "", "")
			if err != nil {
				t.Fatalf("GeneratePost() error = %v", err)
			}
			if draft.Title != "t" || draft.Content != "c" {
				t.Errorf("draft = %+v", draft)
			}
		})
	}
}

func TestGeneratePost_MalformedJSONFails(t *testing.T) {
	w := newCannedWriter(&cannedGenerator{text: "I cannot answer in JSON, sorry"})
	_, err := w.GeneratePost(context.Background(), "", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("GeneratePost() error = %v, want ErrGeneration", err)
	}
}

func TestGeneratePost_MissingKeysFail(t *testing.T) {
	w := newCannedWriter(&cannedGenerator{text: `{"title": "only a title"}`})
	_, err := w.GeneratePost(context.Background(), "", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("GeneratePost() error = %v, want ErrGeneration", err)
	}
}

func TestGeneratePost_APIErrorWrapped(t *testing.T) {
	w := newCannedWriter(&cannedGenerator{err: errors.New("rpc unavailable")})
	_, err := w.GeneratePost(context.Background(), "", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("GeneratePost() error = %v, want ErrGeneration", err)
	}
}

func TestGeneratePost_UsesPersonaPrompt(t *testing.T) {
	gen := &cannedGenerator{text: `{"title": "t", "content": "c"}`}
	w := newCannedWriter(gen)
	w.personas = map[string]Persona{
		"engineer": {Name: "engineer", Prompt: "당신은 개발자 블로그 작가입니다."},
	}

	if _, err := w.GeneratePost(context.Background(), "engineer", "버그"); err != nil {
		t.Fatalf("GeneratePost() error = %v", err)
	}
	if !strings.Contains(gen.last, "개발자 블로그") {
		t.Errorf("prompt %q does not include the persona voice", gen.last)
	}
	if !strings.Contains(gen.last, "버그") {
		t.Errorf("prompt %q does not include the topic", gen.last)
	}
}

func TestTranslate_IncludesDraftAndTarget(t *testing.T) {
	gen := &cannedGenerator{text: `{"title": "Title", "content": "Content"}`}
	w := newCannedWriter(gen)

	draft, err := w.Translate(context.Background(), application.Draft{Title: "제목", Content: "내용"}, domain.LangEnglish)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if draft.Title != "Title" || draft.Content != "Content" {
		t.Errorf("draft = %+v", draft)
	}
	if !strings.Contains(gen.last, "제목") || !strings.Contains(gen.last, "내용") || !strings.Contains(gen.last, "영어") {
		t.Errorf("prompt %q missing draft or target language", gen.last)
	}
}

func TestLoadPersonas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")
	content := "personas:\n  - name: engineer\n    prompt: 개발자의 목소리\n  - name: poet\n    prompt: 시인의 목소리\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	personas, err := LoadPersonas(path)
	if err != nil {
		t.Fatalf("LoadPersonas() error = %v", err)
	}
	if len(personas) != 2 {
		t.Fatalf("loaded %d personas, want 2", len(personas))
	}
	if personas["poet"].Prompt != "시인의 목소리" {
		t.Errorf("poet persona = %+v", personas["poet"])
	}
}

func TestLoadPersonas_MissingFileIsNil(t *testing.T) {
	personas, err := LoadPersonas("/nonexistent/personas.yaml")
	if err != nil {
		t.Fatalf("LoadPersonas() error = %v", err)
	}
	if personas != nil {
		t.Errorf("personas = %v, want nil", personas)
	}
}
