package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 30 * time.Second

const defaultPatientContext = "User is a 45-year-old patient with mild hypertension."

// Canned replies used when no model is configured or a call fails
const (
	SimulatedChatReply      = "I've analyzed your input. Based on your current vitals and history, I recommend maintaining your current hydration levels. Would you like me to schedule a reminder for your next medication?"
	OfflineChatReply        = "I'm currently offline. Please check your internet connection or API configuration."
	EmptyChatReply          = "I'm having trouble processing that request right now."
	SimulatedHealthBotReply = "I am a simulated health bot. Please check your API key to enable real responses."
	UnavailableHealthBot    = "Service currently unavailable."
	EmptyHealthBotReply     = "I cannot answer that right now."
	DefaultDailyTip         = "Drink at least 8 glasses of water today to improve kidney function."
	FallbackDailyTip        = "Take a deep breath and relax for 5 minutes."
	EmptyDailyTip           = "Stay active and hydrated!"

	errNotConfigured       = "AI service is not configured"
	errDocumentAnalysis    = "Failed to analyze document"
	errUnsupportedDocument = "Unsupported document format"
	errTranscriptParse     = "Failed to parse text"
)

// Gateway talks to the generative model. Every method degrades to a
// fallback value; no error escapes.
type Gateway struct {
	client  gollem.LLMClient
	timeout time.Duration
}

var _ interfaces.AIGateway = &Gateway{}

type Option func(*Gateway)

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = d
	}
}

// New creates a gateway. A nil client serves simulated replies.
func New(client gollem.LLMClient, opts ...Option) *Gateway {
	g := &Gateway{
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Configured reports whether a model is attached
func (g *Gateway) Configured() bool {
	return g.client != nil
}

func (g *Gateway) generate(ctx context.Context, asJSON bool, input ...gollem.Input) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var opts []gollem.SessionOption
	if asJSON {
		opts = append(opts, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	}

	session, err := g.client.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, input...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", nil
	}
	return strings.Join(resp.Texts, ""), nil
}

// stripMarkdown removes emphasis markers and backticks
func stripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}

// plainText runs a free text prompt and applies the fallbacks
func (g *Gateway) plainText(ctx context.Context, op, prompt, simulated, onError, onEmpty string) string {
	if g.client == nil {
		return simulated
	}
	text, err := g.generate(ctx, false, gollem.Text(prompt))
	if err != nil {
		logging.From(ctx).Warn("AI gateway call failed", "op", op, "error", err.Error())
		return onError
	}
	if text = stripMarkdown(text); text == "" {
		return onEmpty
	}
	return text
}

// Chat answers the patient assistant conversation
func (g *Gateway) Chat(ctx context.Context, message, patientContext string) string {
	if patientContext == "" {
		patientContext = defaultPatientContext
	}
	prompt := fmt.Sprintf("System: You are HashCare AI, a helpful, empathetic, and professional medical health assistant. "+
		"Keep responses concise and plain text (ABSOLUTELY NO MARKDOWN, NO BOLDING **).\n"+
		"Context: %s\nUser: %s", patientContext, message)
	return g.plainText(ctx, "chat", prompt, SimulatedChatReply, OfflineChatReply, EmptyChatReply)
}

// HealthBot answers general wellness questions in the requested language
func (g *Gateway) HealthBot(ctx context.Context, message, language string) string {
	if language == "" {
		language = "English"
	}
	var sb strings.Builder
	sb.WriteString("System: You are a responsible AI Health Assistant.\n")
	sb.WriteString("Your Rules:\n")
	sb.WriteString("1. Provide general health and wellness advice ONLY.\n")
	sb.WriteString("2. DO NOT provide specific medical diagnoses or prescriptions.\n")
	sb.WriteString("3. Always advise the user to consult a real doctor for serious symptoms.\n")
	sb.WriteString("4. Keep responses concise (under 3 sentences if possible).\n")
	fmt.Fprintf(&sb, "5. Respond IN THE LANGUAGE: %s (Detect if user uses a different language and adapt, but prefer %s).\n", language, language)
	sb.WriteString("6. Do NOT use markdown, bolding, or special characters. Plain text only.\n\n")
	fmt.Fprintf(&sb, "User Query: %s\n", message)

	return g.plainText(ctx, "healthbot", sb.String(), SimulatedHealthBotReply, UnavailableHealthBot, EmptyHealthBotReply)
}

// DailyTip returns a one sentence dashboard tip
func (g *Gateway) DailyTip(ctx context.Context) string {
	const prompt = "Give me a short, single sentence health tip for a dashboard. Do not use bold formatting or markdown."
	return g.plainText(ctx, "daily_tip", prompt, DefaultDailyTip, FallbackDailyTip, EmptyDailyTip)
}

// NearbyHospitals asks the model for hospitals around a point. Any
// failure yields an empty list.
func (g *Gateway) NearbyHospitals(ctx context.Context, lat, lng float64) []model.NearbyHospital {
	hospitals := []model.NearbyHospital{}
	if g.client == nil {
		return hospitals
	}

	prompt := fmt.Sprintf(`Find 4 real hospitals near latitude %f, longitude %f.
Return ONLY a raw JSON array (no markdown, no code blocks, just the array) where each object has these fields:
- id: number
- name: string
- distance: string (estimated distance)
- rating: number
- bedsAvailable: number (between 0-20)
- waitList: number (minutes)
- specialties: array of strings (e.g. ["Cardiology", "General"])
- address: string
`, lat, lng)

	text, err := g.generate(ctx, false, gollem.Text(prompt))
	if err != nil {
		logging.From(ctx).Warn("AI gateway call failed", "op", "nearby_hospitals", "error", err.Error())
		return hospitals
	}
	raw, ok := ExtractJSON(text)
	if !ok || !strings.HasPrefix(raw, "[") {
		logging.From(ctx).Warn("no hospital list in model reply", "reply", text)
		return hospitals
	}
	if err := json.Unmarshal([]byte(raw), &hospitals); err != nil {
		logging.From(ctx).Warn("failed to parse hospital list", "error", err.Error())
		return []model.NearbyHospital{}
	}
	return hospitals
}

const documentPrompt = `Analyze this medical document (prescription, lab report, or scan).
Extract the following in strict JSON format:
{
  "docType": "string (e.g., 'Lab Report', 'Prescription')",
  "date": "string (YYYY-MM-DD if found, else today)",
  "summary": "string (2 sentence summary)",
  "abnormalities": ["string array of abnormal values or warnings"],
  "actionItems": [
    {
      "type": "medication | test | appointment | instruction",
      "detail": "string (e.g. 'Take Metformin 500mg')",
      "priority": "high | medium | low"
    }
  ]
}
If you cannot read it, return {"error": "unreadable"}.
DO NOT USE MARKDOWN. RAW JSON ONLY.
`

// documentInput inlines text documents into the prompt and attaches PDFs
// and images as their own inputs
func documentInput(data []byte, mimeType string) ([]gollem.Input, error) {
	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return []gollem.Input{gollem.Text(documentPrompt + "\nDocument content:\n" + string(data))}, nil
	case mimeType == "application/pdf":
		pdf, err := gollem.NewPDF(data)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid PDF document")
		}
		return []gollem.Input{gollem.Text(documentPrompt), pdf}, nil
	default:
		img, err := gollem.NewImage(data)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid image document")
		}
		return []gollem.Input{gollem.Text(documentPrompt), img}, nil
	}
}

// AnalyzeDocument extracts structure from an uploaded document. Textual
// documents are inlined into the prompt; anything else goes to the vision
// model as a PDF or image input.
func (g *Gateway) AnalyzeDocument(ctx context.Context, data []byte, mimeType string) *model.DocumentAnalysis {
	if g.client == nil {
		return &model.DocumentAnalysis{Error: errNotConfigured}
	}

	input, err := documentInput(data, mimeType)
	if err != nil {
		logging.From(ctx).Warn("unsupported document", "mime_type", mimeType, "error", err.Error())
		return &model.DocumentAnalysis{Error: errUnsupportedDocument}
	}

	text, err := g.generate(ctx, true, input...)
	if err != nil {
		logging.From(ctx).Warn("AI gateway call failed", "op", "analyze_document", "error", err.Error())
		return &model.DocumentAnalysis{Error: errDocumentAnalysis}
	}

	var result model.DocumentAnalysis
	if err := decodeReply(text, &result); err != nil {
		logging.From(ctx).Warn("malformed document analysis", "error", err.Error())
		return &model.DocumentAnalysis{Error: errDocumentAnalysis}
	}
	if result.Error != "" {
		return &model.DocumentAnalysis{Error: result.Error}
	}

	if result.Abnormalities == nil {
		result.Abnormalities = []string{}
	}
	for i := range result.ActionItems {
		result.ActionItems[i].Type = strings.ToLower(strings.TrimSpace(result.ActionItems[i].Type))
		result.ActionItems[i].Priority = types.Priority(strings.ToLower(string(result.ActionItems[i].Priority)))
	}
	return &result
}

// AnalyzeTranscript extracts instructions from a doctor conversation
func (g *Gateway) AnalyzeTranscript(ctx context.Context, transcript string) *model.TranscriptAnalysis {
	if g.client == nil {
		return &model.TranscriptAnalysis{Error: errNotConfigured}
	}

	prompt := fmt.Sprintf(`Analyze this doctor-patient conversation transcript or text note.
Identify implicitly or explicitly stated medical instructions.
Return strict JSON:
{
  "insights": [
    {
      "type": "instruction | medication | lifestyle",
      "text": "string",
      "confidence": number (0-100)
    }
  ],
  "missedActions": ["string array of things the patient might have forgotten to do based on context"]
}
Transcript: %q
`, transcript)

	text, err := g.generate(ctx, true, gollem.Text(prompt))
	if err != nil {
		logging.From(ctx).Warn("AI gateway call failed", "op", "analyze_transcript", "error", err.Error())
		return &model.TranscriptAnalysis{Error: errTranscriptParse}
	}

	var result model.TranscriptAnalysis
	if err := decodeReply(text, &result); err != nil {
		logging.From(ctx).Warn("malformed transcript analysis", "error", err.Error())
		return &model.TranscriptAnalysis{Error: errTranscriptParse}
	}
	if result.Error != "" {
		return &model.TranscriptAnalysis{Error: result.Error}
	}
	if result.MissedActions == nil {
		result.MissedActions = []string{}
	}
	return &result
}

func decodeReply(text string, v any) error {
	raw, ok := ExtractJSON(text)
	if !ok {
		return goerr.New("no JSON in model reply", goerr.V("reply", text))
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return goerr.Wrap(err, "failed to decode model reply", goerr.V("reply", raw))
	}
	return nil
}
