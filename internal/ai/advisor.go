package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/nhle/sarnrak/internal/model"
)

const (
	defaultModel       = "gemini-3-flash-preview"
	defaultImageModel  = "gemini-2.5-flash-image"
	defaultTemperature = 0.7
	backdropRatio      = "16:9"
)

// Messages shown instead of advice when the service gives nothing usable.
const (
	NoAdviceMessage   = "ขออภัยครับ ไม่สามารถดึงข้อมูลคำแนะนำได้ในขณะนี้"
	ConnectionMessage = "ขออภัยครับ เกิดข้อผิดพลาดในการเชื่อมต่อกับผู้ช่วย AI กรุณาลองใหม่อีกครั้ง"
)

const systemInstruction = "You provide warm, expert advice on Thai wedding planning. " +
	"Use polite Thai language (Krub/Ka). " +
	"Offer practical tips and explain traditional meanings when asked."

// ErrNoAPIKey is returned by NewAdvisor when no Gemini key is configured.
var ErrNoAPIKey = errors.New("gemini API key is required")

// Generator is the part of the Gemini client the advisor uses. It is
// satisfied by *genai.Models.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ChecklistItem is one suggested planning task.
type ChecklistItem struct {
	Task          string  `json:"task"`
	Priority      string  `json:"priority"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Advisor answers planning questions and generates backdrop images through
// Gemini. The zero value is not usable; create one with NewAdvisor or
// NewAdvisorWithGenerator.
type Advisor struct {
	gen         Generator
	model       string
	imageModel  string
	temperature float32
	logger      zerolog.Logger
}

// NewAdvisor creates an advisor backed by the Gemini API.
func NewAdvisor(ctx context.Context, apiKey string, cfg model.AIConfig, logger zerolog.Logger) (*Advisor, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return NewAdvisorWithGenerator(client.Models, cfg, logger), nil
}

// NewAdvisorWithGenerator creates an advisor over an arbitrary generator.
// Empty config values fall back to the defaults.
func NewAdvisorWithGenerator(gen Generator, cfg model.AIConfig, logger zerolog.Logger) *Advisor {
	a := &Advisor{
		gen:         gen,
		model:       cfg.Model,
		imageModel:  cfg.ImageModel,
		temperature: cfg.Temperature,
		logger:      logger.With().Str("component", "ai").Logger(),
	}
	if a.model == "" {
		a.model = defaultModel
	}
	if a.imageModel == "" {
		a.imageModel = defaultImageModel
	}
	if a.temperature <= 0 {
		a.temperature = defaultTemperature
	}
	return a
}

// Advice asks for planning advice. summary describes the current plan (see
// ContextSummary) and may be empty. Advice never fails: errors and empty
// answers become one of the fixed apology messages.
func (a *Advisor) Advice(ctx context.Context, prompt, summary string) string {
	if summary == "" {
		summary = "Just starting planning"
	}

	var sb strings.Builder
	sb.WriteString("Context: You are a Thai wedding expert assistant named 'Sarn Rak'.\n")
	sb.WriteString("Help the couple plan their wedding according to Thai traditions.\n")
	sb.WriteString("Current User Status: ")
	sb.WriteString(summary)
	sb.WriteString("\nUser Question: ")
	sb.WriteString(prompt)

	resp, err := a.gen.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(sb.String(), genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(a.temperature),
		},
	)
	if err != nil {
		a.logger.Error().Err(err).Str("model", a.model).Msg("advice request failed")
		return ConnectionMessage
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		a.logger.Warn().Str("model", a.model).Msg("advice response was empty")
		return NoAdviceMessage
	}
	return text
}

// BackdropIdea generates a backdrop image for theme and returns it as a
// data URI. It returns "" and a nil error when the model answered without
// an image.
func (a *Advisor) BackdropIdea(ctx context.Context, theme model.Theme) (string, error) {
	resp, err := a.gen.GenerateContent(ctx, a.imageModel,
		[]*genai.Content{genai.NewContentFromText(backdropPrompt(theme), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{AspectRatio: backdropRatio},
		},
	)
	if err != nil {
		a.logger.Error().Err(err).Str("model", a.imageModel).Str("theme", theme.Name).
			Msg("backdrop generation failed")
		return "", fmt.Errorf("generating backdrop: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return DataURI(mime, part.InlineData.Data), nil
	}
	a.logger.Warn().Str("model", a.imageModel).Msg("backdrop response carried no image")
	return "", nil
}

func backdropPrompt(theme model.Theme) string {
	var sb strings.Builder
	sb.WriteString("A professional, high-quality 3D architectural render of a Thai wedding backdrop.\n")
	fmt.Fprintf(&sb, "Theme: %s.\n", theme.Name)
	fmt.Fprintf(&sb, "Primary Color: %s, Secondary Color: %s.\n", theme.PrimaryColor, theme.SecondaryColor)
	fmt.Fprintf(&sb, "Specific Details: %s.\n", theme.BackdropNotes)
	sb.WriteString("The design should look elegant, traditional yet modern, featuring Thai floral ")
	sb.WriteString("patterns (Phuang Malai), silk textures, and professional wedding lighting.\n")
	sb.WriteString("Cinematic photography style, 8k resolution.")
	return sb.String()
}

// checklistSchema constrains the checklist response to a JSON array.
var checklistSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"task":           {Type: genai.TypeString},
			"priority":       {Type: genai.TypeString},
			"estimated_cost": {Type: genai.TypeNumber},
		},
		Required: []string{"task", "priority", "estimated_cost"},
	},
}

// Checklist asks for a list of planning tasks sized to the budget and guest
// count. Any failure yields an empty list.
func (a *Advisor) Checklist(ctx context.Context, budget float64, guestCount int) []ChecklistItem {
	prompt := fmt.Sprintf(
		"สร้างรายการสิ่งที่ต้องทำสำหรับการจัดงานแต่งงานแบบไทยด้วยงบประมาณ %.0f บาท สำหรับแขก %d คน "+
			"ขอเป็นรูปแบบ JSON array ของ object ที่มี fields: task, priority (high/medium/low), and estimated_cost.",
		budget, guestCount)

	resp, err := a.gen.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   checklistSchema,
		},
	)
	if err != nil {
		a.logger.Error().Err(err).Str("model", a.model).Msg("checklist request failed")
		return []ChecklistItem{}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return []ChecklistItem{}
	}
	var items []ChecklistItem
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		a.logger.Error().Err(err).Int("bytes", len(text)).Msg("checklist response is not valid JSON")
		return []ChecklistItem{}
	}
	if items == nil {
		items = []ChecklistItem{}
	}
	return items
}

// DataURI encodes data as a base64 data URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
