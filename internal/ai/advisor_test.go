package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/nhle/sarnrak/internal/model"
)

type call struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls []call
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, call{model: model, contents: contents, config: config})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func promptText(c call) string {
	var sb strings.Builder
	for _, content := range c.contents {
		for _, p := range content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func newTestAdvisor(gen Generator) *Advisor {
	return NewAdvisorWithGenerator(gen, model.AIConfig{}, zerolog.Nop())
}

func TestAdvice(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("เลือกฤกษ์ดีครับ")}
	a := newTestAdvisor(gen)

	got := a.Advice(context.Background(), "When should we hold the ceremony?", "Wedding for A & B")
	assert.Equal(t, "เลือกฤกษ์ดีครับ", got)

	require.Len(t, gen.calls, 1)
	c := gen.calls[0]
	assert.Equal(t, defaultModel, c.model)
	require.NotNil(t, c.config.Temperature)
	assert.InDelta(t, 0.7, *c.config.Temperature, 1e-6)
	require.NotNil(t, c.config.SystemInstruction)
	assert.Contains(t, promptText(c), "Current User Status: Wedding for A & B")
	assert.Contains(t, promptText(c), "User Question: When should we hold the ceremony?")
}

func TestAdviceWithoutSummary(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	newTestAdvisor(gen).Advice(context.Background(), "hi", "")
	assert.Contains(t, promptText(gen.calls[0]), "Just starting planning")
}

func TestAdviceFallbacks(t *testing.T) {
	a := newTestAdvisor(&fakeGenerator{err: errors.New("network down")})
	assert.Equal(t, ConnectionMessage, a.Advice(context.Background(), "hi", ""))

	a = newTestAdvisor(&fakeGenerator{resp: textResponse("   ")})
	assert.Equal(t, NoAdviceMessage, a.Advice(context.Background(), "hi", ""))
}

func TestAdvisorUsesConfig(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("ok")}
	a := NewAdvisorWithGenerator(gen, model.AIConfig{Model: "m1", ImageModel: "m2", Temperature: 0.2}, zerolog.Nop())
	a.Advice(context.Background(), "hi", "")
	_, _ = a.BackdropIdea(context.Background(), model.DefaultTheme())

	require.Len(t, gen.calls, 2)
	assert.Equal(t, "m1", gen.calls[0].model)
	assert.InDelta(t, 0.2, *gen.calls[0].config.Temperature, 1e-6)
	assert.Equal(t, "m2", gen.calls[1].model)
}

func TestBackdropIdea(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
			}},
		}},
	}}
	a := newTestAdvisor(gen)

	theme := model.Theme{Name: "Garden", PrimaryColor: "#88aa55", SecondaryColor: "#ffffff", BackdropNotes: "jasmine garlands"}
	url, err := a.BackdropIdea(context.Background(), theme)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw==", url)

	c := gen.calls[0]
	assert.Equal(t, defaultImageModel, c.model)
	require.NotNil(t, c.config.ImageConfig)
	assert.Equal(t, "16:9", c.config.ImageConfig.AspectRatio)
	prompt := promptText(c)
	assert.Contains(t, prompt, "Theme: Garden.")
	assert.Contains(t, prompt, "Primary Color: #88aa55, Secondary Color: #ffffff.")
	assert.Contains(t, prompt, "Specific Details: jasmine garlands.")
}

func TestBackdropIdeaWithoutImage(t *testing.T) {
	a := newTestAdvisor(&fakeGenerator{resp: textResponse("no image today")})
	url, err := a.BackdropIdea(context.Background(), model.DefaultTheme())
	require.NoError(t, err)
	assert.Empty(t, url)

	a = newTestAdvisor(&fakeGenerator{resp: &genai.GenerateContentResponse{}})
	url, err = a.BackdropIdea(context.Background(), model.DefaultTheme())
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestBackdropIdeaError(t *testing.T) {
	boom := errors.New("quota exceeded")
	a := newTestAdvisor(&fakeGenerator{err: boom})
	url, err := a.BackdropIdea(context.Background(), model.DefaultTheme())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, url)
}

func TestChecklist(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`[{"task":"จองสถานที่","priority":"high","estimated_cost":150000}]`)}
	a := newTestAdvisor(gen)

	items := a.Checklist(context.Background(), 500000, 200)
	assert.Equal(t, []ChecklistItem{{Task: "จองสถานที่", Priority: "high", EstimatedCost: 150000}}, items)

	c := gen.calls[0]
	assert.Equal(t, "application/json", c.config.ResponseMIMEType)
	require.NotNil(t, c.config.ResponseSchema)
	assert.Equal(t, genai.TypeArray, c.config.ResponseSchema.Type)
	assert.Contains(t, promptText(c), "500000 บาท")
	assert.Contains(t, promptText(c), "แขก 200 คน")
}

func TestChecklistFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"error", &fakeGenerator{err: errors.New("down")}},
		{"empty", &fakeGenerator{resp: textResponse("")}},
		{"invalid json", &fakeGenerator{resp: textResponse("not json")}},
		{"null", &fakeGenerator{resp: textResponse("null")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := newTestAdvisor(tt.gen).Checklist(context.Background(), 1000, 10)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestNewAdvisorRequiresKey(t *testing.T) {
	_, err := NewAdvisor(context.Background(), "", model.AIConfig{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestContextSummary(t *testing.T) {
	rec := model.DefaultRecord()
	rec.Guests = []model.Guest{{ID: "1"}, {ID: "2"}}
	assert.Equal(t, "Wedding for แก้ว & ก้อง, Theme: Traditional Elegance, Budget: 500000, Guests: 2", ContextSummary(rec))
}

func TestHistoryTrimsKeepingFirst(t *testing.T) {
	h := NewHistory(3)
	h.Add(RoleUser, "first")
	h.Add(RoleAssistant, "a")
	h.Add(RoleUser, "b")
	h.Add(RoleAssistant, "c")

	msgs := h.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "b", msgs[1].Content)
	assert.Equal(t, "c", msgs[2].Content)

	h.Reset()
	assert.Equal(t, 0, h.Len())
}
