package ai

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	aiservice "github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/model"
)

type cannedGenerator struct {
	answer  string
	prompts []string
}

func (g *cannedGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for _, c := range contents {
		for _, p := range c.Parts {
			g.prompts = append(g.prompts, p.Text)
		}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: g.answer}}},
		}},
	}, nil
}

func TestNoAdvisorShowsSetup(t *testing.T) {
	m := New(nil, nil, 100, 30)

	out := m.View()
	assert.Contains(t, out, "sarnrak key set")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Waiting())
}

func TestEscClosesPanel(t *testing.T) {
	m := New(nil, nil, 100, 30)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, PanelCloseMsg{}, cmd())
}

func TestAskRoundTrip(t *testing.T) {
	gen := &cannedGenerator{answer: "จองสถานที่ก่อน 6 เดือน"}
	advisor := aiservice.NewAdvisorWithGenerator(gen, model.AIConfig{}, zerolog.Nop())
	m := New(advisor, func() string { return "budget 500000" }, 100, 30)

	m.input.SetValue("When should we book the venue?")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Waiting())
	assert.Empty(t, m.input.Value())

	// While waiting a second question is ignored.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	msg := m.ask("When should we book the venue?")()
	m, _ = m.Update(msg)
	assert.False(t, m.Waiting())
	assert.Equal(t, 2, m.history.Len())
	assert.Contains(t, m.View(), "จองสถานที่ก่อน 6 เดือน")
	assert.Contains(t, gen.prompts[len(gen.prompts)-1], "budget 500000")

	m.Reset()
	assert.Equal(t, 0, m.history.Len())
}
