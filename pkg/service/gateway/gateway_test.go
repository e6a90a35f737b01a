package gateway_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/gateway"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

// mockSession embeds gollem.Session so it keeps satisfying the interface;
// only GenerateContent is called by the gateway.
type mockSession struct {
	gollem.Session
	reply  string
	err    error
	prompt *string
	inputs *[]gollem.Input
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.inputs != nil {
		*s.inputs = append(*s.inputs, input...)
	}
	if s.prompt != nil {
		for _, in := range input {
			if text, ok := in.(gollem.Text); ok {
				*s.prompt = string(text)
			}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &gollem.Response{Texts: []string{s.reply}}, nil
}

type mockClient struct {
	session    *mockSession
	sessionErr error
}

func (c *mockClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.sessionErr != nil {
		return nil, c.sessionErr
	}
	return c.session, nil
}

func (c *mockClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// onePixelPNG is a valid 1x1 PNG image
var onePixelPNG = func() []byte {
	data, err := base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")
	if err != nil {
		panic(err)
	}
	return data
}()

func replying(reply string) *gateway.Gateway {
	return gateway.New(&mockClient{session: &mockSession{reply: reply}})
}

func failing() *gateway.Gateway {
	return gateway.New(&mockClient{session: &mockSession{err: errors.New("quota exceeded")}})
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("strips markdown", func(t *testing.T) {
		var prompt string
		g := gateway.New(&mockClient{session: &mockSession{reply: "  **Stay** *well* and `hydrated`  ", prompt: &prompt}})
		gt.V(t, g.Chat(ctx, "How am I doing?", "")).Equal("Stay well and hydrated")
		gt.String(t, prompt).Contains("HashCare AI")
		gt.String(t, prompt).Contains("mild hypertension")
		gt.String(t, prompt).Contains("User: How am I doing?")
	})

	t.Run("simulated without client", func(t *testing.T) {
		g := gateway.New(nil)
		gt.B(t, g.Configured()).False()
		gt.V(t, g.Chat(ctx, "hi", "")).Equal(gateway.SimulatedChatReply)
	})

	t.Run("offline on failure", func(t *testing.T) {
		gt.V(t, failing().Chat(ctx, "hi", "")).Equal(gateway.OfflineChatReply)
	})

	t.Run("session failure", func(t *testing.T) {
		g := gateway.New(&mockClient{sessionErr: errors.New("no credentials")})
		gt.V(t, g.Chat(ctx, "hi", "")).Equal(gateway.OfflineChatReply)
	})

	t.Run("empty reply", func(t *testing.T) {
		gt.V(t, replying("**").Chat(ctx, "hi", "")).Equal(gateway.EmptyChatReply)
	})
}

func TestHealthBotAndTip(t *testing.T) {
	ctx := context.Background()

	var prompt string
	g := gateway.New(&mockClient{session: &mockSession{reply: "Rest well.", prompt: &prompt}})
	gt.V(t, g.HealthBot(ctx, "I have a headache", "Hindi")).Equal("Rest well.")
	gt.String(t, prompt).Contains("Respond IN THE LANGUAGE: Hindi")

	gt.V(t, gateway.New(nil).HealthBot(ctx, "hi", "English")).Equal(gateway.SimulatedHealthBotReply)
	gt.V(t, failing().HealthBot(ctx, "hi", "English")).Equal(gateway.UnavailableHealthBot)

	gt.V(t, gateway.New(nil).DailyTip(ctx)).Equal(gateway.DefaultDailyTip)
	gt.V(t, failing().DailyTip(ctx)).Equal(gateway.FallbackDailyTip)
}

func TestNearbyHospitals(t *testing.T) {
	ctx := context.Background()

	reply := "```json\n[{\"id\": 1, \"name\": \"AIIMS\", \"distance\": \"2.1 km\", \"rating\": 4.5, \"bedsAvailable\": 4, \"waitList\": 20, \"specialties\": [\"Cardiology\"]}]\n```"
	hospitals := replying(reply).NearbyHospitals(ctx, 28.61, 77.20)
	gt.A(t, hospitals).Length(1)
	gt.V(t, hospitals[0].Name).Equal("AIIMS")
	gt.A(t, hospitals[0].Specialties).Length(1)

	gt.A(t, replying("no hospitals found").NearbyHospitals(ctx, 0, 0)).Length(0)
	gt.A(t, replying(`{"name": "not a list"}`).NearbyHospitals(ctx, 0, 0)).Length(0)
	gt.A(t, failing().NearbyHospitals(ctx, 0, 0)).Length(0)
	gt.V(t, gateway.New(nil).NearbyHospitals(ctx, 0, 0)).NotNil()
}

func TestAnalyzeDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("parses fenced reply", func(t *testing.T) {
		reply := "Here you go:\n```json\n" + `{
  "docType": "Prescription",
  "date": "2025-01-10",
  "summary": "Statin prescribed.",
  "abnormalities": ["LDL 190 mg/dL"],
  "actionItems": [{"type": "Medication", "detail": "Atorvastatin 10mg", "priority": "HIGH"}]
}` + "\n```"
		result := replying(reply).AnalyzeDocument(ctx, onePixelPNG, "image/png")
		gt.B(t, result.Failed()).False()
		gt.V(t, result.DocType).Equal("Prescription")
		gt.A(t, result.Abnormalities).Length(1)
		gt.A(t, result.ActionItems).Length(1)
		gt.V(t, result.ActionItems[0].Type).Equal("medication")
		gt.V(t, result.ActionItems[0].Priority).Equal(types.PriorityHigh)
	})

	t.Run("malformed reply", func(t *testing.T) {
		result := replying("Sure! Here is the data: {not valid json").AnalyzeDocument(ctx, []byte("x"), "text/plain")
		gt.B(t, result.Failed()).True()
		gt.String(t, result.Error).NotEqual("")
	})

	t.Run("unreadable document", func(t *testing.T) {
		result := replying(`{"error": "unreadable"}`).AnalyzeDocument(ctx, onePixelPNG, "image/png")
		gt.V(t, result.Error).Equal("unreadable")
	})

	t.Run("call failure", func(t *testing.T) {
		gt.B(t, failing().AnalyzeDocument(ctx, onePixelPNG, "image/png").Failed()).True()
	})

	t.Run("not configured", func(t *testing.T) {
		gt.B(t, gateway.New(nil).AnalyzeDocument(ctx, []byte("x"), "image/png").Failed()).True()
	})

	t.Run("images are sent as image input", func(t *testing.T) {
		var inputs []gollem.Input
		g := gateway.New(&mockClient{session: &mockSession{reply: `{"docType":"Scan"}`, inputs: &inputs}})
		result := g.AnalyzeDocument(ctx, onePixelPNG, "image/png")
		gt.B(t, result.Failed()).False()
		gt.V(t, result.DocType).Equal("Scan")

		gt.A(t, inputs).Length(2)
		prompt, ok := inputs[0].(gollem.Text)
		gt.B(t, ok).True()
		gt.String(t, string(prompt)).Contains("Analyze this medical document")
		gt.String(t, string(prompt)).NotContains("base64")
		_, isImage := inputs[1].(gollem.Image)
		gt.B(t, isImage).True()
	})

	t.Run("pdf documents are sent as pdf input", func(t *testing.T) {
		var inputs []gollem.Input
		g := gateway.New(&mockClient{session: &mockSession{reply: `{"docType":"Discharge Summary"}`, inputs: &inputs}})
		result := g.AnalyzeDocument(ctx, []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"), "application/pdf")
		gt.B(t, result.Failed()).False()

		gt.A(t, inputs).Length(2)
		_, isPDF := inputs[1].(gollem.PDF)
		gt.B(t, isPDF).True()
	})

	t.Run("unsupported binary is rejected before the model call", func(t *testing.T) {
		var inputs []gollem.Input
		g := gateway.New(&mockClient{session: &mockSession{reply: `{"docType":"Scan"}`, inputs: &inputs}})

		result := g.AnalyzeDocument(ctx, []byte("x"), "image/png")
		gt.V(t, result.Error).Equal("Unsupported document format")

		result = g.AnalyzeDocument(ctx, []byte("not a pdf at all"), "application/pdf")
		gt.V(t, result.Error).Equal("Unsupported document format")
		gt.A(t, inputs).Length(0)
	})

	t.Run("text documents are inlined", func(t *testing.T) {
		var prompt string
		var inputs []gollem.Input
		g := gateway.New(&mockClient{session: &mockSession{reply: `{"docType":"Note"}`, prompt: &prompt, inputs: &inputs}})
		result := g.AnalyzeDocument(ctx, []byte("BP 150/95"), "text/plain")
		gt.B(t, result.Failed()).False()
		gt.A(t, result.Abnormalities).Length(0)
		gt.String(t, prompt).Contains("BP 150/95")
		gt.A(t, inputs).Length(1)
	})
}

func TestAnalyzeTranscript(t *testing.T) {
	ctx := context.Background()

	reply := `{"insights": [{"type": "medication", "text": "Take Metformin 500mg after dinner", "confidence": 92}], "missedActions": ["Schedule HbA1c"]}`
	var prompt string
	g := gateway.New(&mockClient{session: &mockSession{reply: reply, prompt: &prompt}})

	result := g.AnalyzeTranscript(ctx, `Doctor said "take it after dinner"`)
	gt.B(t, result.Failed()).False()
	gt.A(t, result.Insights).Length(1)
	gt.Number(t, result.Insights[0].Confidence).Equal(92)
	gt.A(t, result.MissedActions).Length(1)
	gt.B(t, strings.Contains(prompt, `\"take it after dinner\"`)).True()

	gt.String(t, replying("Sure! Here is the data: {not valid json").AnalyzeTranscript(ctx, "x").Error).NotEqual("")
	gt.B(t, gateway.New(nil).AnalyzeTranscript(ctx, "x").Failed()).True()
}
