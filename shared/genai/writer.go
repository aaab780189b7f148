// Package genai wraps the Gemini API as the blog's writer and
// translator. Responses are expected to carry a JSON object
// {"title": ..., "content": ...}, optionally fenced in a code block.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/domain"
)

const DefaultModel = "gemini-2.0-flash"

const defaultSystemPrompt = `당신은 'Cheer Factory'라는 익명 블로그의 작가입니다.

## 글쓰기 스타일
- 따뜻하고 진정성 있는 톤
- 짧고 간결한 문장 (3-5문장 정도의 단락)
- 독자에게 용기와 위로를 주는 내용
- 일상의 작은 깨달음이나 생각을 담담하게 표현
- 이모지 사용 금지
- 존댓말 사용

## 형식
- 제목: 짧고 인상적인 한 줄 (15자 이내)
- 본문: 2-4개의 짧은 단락
- 마지막은 독자에게 건네는 한마디로 마무리`

var newGeminiClient = genai.NewClient

// contentGenerator narrows the Gemini model to what the writer needs,
// so tests can substitute a canned generator.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Writer generates persona-voiced posts and translations via Gemini.
type Writer struct {
	generator contentGenerator
	closeFn   func() error
	modelName string
	personas  map[string]Persona
}

var _ application.Writer = (*Writer)(nil)

// NewWriter connects to Gemini with the given API key and model name.
// An empty model name falls back to DefaultModel.
func NewWriter(ctx context.Context, apiKey, modelName string, personas map[string]Persona, extraOpts ...option.ClientOption) (*Writer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai writer: API key is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, extraOpts...)
	client, err := newGeminiClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetCandidateCount(1)
	model.SetMaxOutputTokens(1024)
	model.SetTemperature(0.8)

	return &Writer{
		generator: model,
		closeFn:   client.Close,
		modelName: modelName,
		personas:  personas,
	}, nil
}

// Close releases the underlying client connection.
func (w *Writer) Close() error {
	if w == nil || w.closeFn == nil {
		return nil
	}
	return w.closeFn()
}

// GeneratePost writes a new post in the persona's voice. An empty
// topic lets the model choose freely; an unknown persona falls back to
// the default Cheer Factory voice.
func (w *Writer) GeneratePost(ctx context.Context, persona, topic string) (*application.Draft, error) {
	system := defaultSystemPrompt
	if p, ok := w.personas[persona]; ok {
		system = p.Prompt
	}

	user := "오늘의 글을 자유롭게 작성해주세요."
	if strings.TrimSpace(topic) != "" {
		user = "다음 주제로 글을 작성해주세요: " + strings.TrimSpace(topic)
	}

	prompt := fmt.Sprintf("%s\n\n%s\n\nJSON 형식으로 응답해주세요:\n{\"title\": \"제목\", \"content\": \"본문\"}", system, user)
	return w.complete(ctx, prompt)
}

// Translate renders a draft into targetLang, preserving tone.
func (w *Writer) Translate(ctx context.Context, d application.Draft, targetLang string) (*application.Draft, error) {
	prompt := fmt.Sprintf(
		"다음 블로그 글을 %s(으)로 자연스럽게 번역해주세요. 따뜻한 톤을 유지해주세요.\n\n제목: %s\n\n본문:\n%s\n\nJSON 형식으로 응답해주세요:\n{\"title\": \"translated title\", \"content\": \"translated content\"}",
		languageName(targetLang), d.Title, d.Content,
	)
	return w.complete(ctx, prompt)
}

func (w *Writer) complete(ctx context.Context, prompt string) (*application.Draft, error) {
	if w.generator == nil {
		return nil, fmt.Errorf("%w: genai writer is not initialized", domain.ErrGeneration)
	}

	resp, err := w.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	text, err := extractFirstText(resp)
	if err != nil {
		return nil, err
	}
	return parseDraft(text)
}

// extractFirstText returns the first non-empty text part of any
// candidate in the response.
func extractFirstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrGeneration)
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				if trimmed := strings.TrimSpace(string(text)); trimmed != "" {
					return trimmed, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w: response contained no text", domain.ErrGeneration)
}

// parseDraft strips an optional markdown code fence and decodes the
// {"title","content"} object.
func parseDraft(text string) (*application.Draft, error) {
	text = stripFence(text)

	var raw struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON in response: %v", domain.ErrGeneration, err)
	}
	if raw.Title == "" || raw.Content == "" {
		return nil, fmt.Errorf("%w: response missing title or content", domain.ErrGeneration)
	}
	return &application.Draft{Title: raw.Title, Content: raw.Content}, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func languageName(lang string) string {
	switch lang {
	case domain.LangEnglish:
		return "영어"
	case domain.LangKorean:
		return "한국어"
	default:
		return lang
	}
}
