// Package gemini implements model.Model on top of the Google Gemini API via
// the official google.golang.org/genai SDK, including streaming and function
// calling.
package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
)

// Options configures the Gemini adapter.
type Options struct {
	Model           string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the Gemini GenerateContent API behind model.Model.
type Model struct {
	client *genai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:           "gemini-1.5-pro",
		Temperature:     0.7,
		TopP:            0.95,
		MaxOutputTokens: 4096,
	}
}

// NewModel creates a Gemini adapter. The API key must be supplied via the
// APIKey option (typically sourced from GEMINI_API_KEY).
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: opts.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates an adapter from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Generate implements unified streaming / non-streaming generation.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		contents, system := m.buildContents(req)
		config := m.buildConfig(system, req.Tools)

		if req.Stream {
			m.handleStreaming(ctx, contents, config, out, errCh)
			return
		}

		m.handleNonStreaming(ctx, contents, config, out, errCh)
	}()

	return out, errCh
}

// buildContents converts normalized contents into genai contents, splitting
// out system text as a system instruction.
func (m *Model) buildContents(req model.Request) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content

	var systemText strings.Builder

	for _, c := range req.Contents {
		if c.Role == "system" {
			for _, p := range c.Parts {
				if tp, ok := p.(core.TextPart); ok {
					systemText.WriteString(tp.Text)
				}
			}
			continue
		}

		var parts []*genai.Part

		for _, p := range c.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					parts = append(parts, &genai.Part{Text: part.Text})
				}
			case core.FunctionCallPart:
				var args map[string]any
				if part.FunctionCall.Arguments != "" {
					_ = json.Unmarshal([]byte(part.FunctionCall.Arguments), &args)
				}

				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   part.FunctionCall.ID,
						Name: part.FunctionCall.Name,
						Args: args,
					},
				})
			case core.FunctionResponsePart:
				fr := part.FunctionResponse

				var response map[string]any
				switch v := fr.Response.(type) {
				case map[string]any:
					response = v
				case string:
					response = map[string]any{"result": v}
				default:
					response = map[string]any{"result": fmt.Sprintf("%v", v)}
				}

				if fr.Error != "" {
					response["error"] = fr.Error
				}

				parts = append(parts, &genai.Part{
					FunctionResponse: &genai.FunctionResponse{
						ID:       fr.ID,
						Name:     fr.Name,
						Response: response,
					},
				})
			}
		}

		if len(parts) == 0 {
			continue
		}

		role := "user"
		if c.Role == "assistant" {
			role = "model"
		}

		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	var system *genai.Content
	if systemText.Len() > 0 {
		system = &genai.Content{Parts: []*genai.Part{{Text: systemText.String()}}}
	}

	return contents, system
}

func (m *Model) buildConfig(system *genai.Content, tools []model.ToolDefinition) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(m.opts.Temperature)),
		TopP:              genai.Ptr(float32(m.opts.TopP)),
		MaxOutputTokens:   m.opts.MaxOutputTokens,
	}

	if len(tools) > 0 {
		declarations := make([]*genai.FunctionDeclaration, len(tools))
		for i, t := range tools {
			declarations[i] = &genai.FunctionDeclaration{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  toGenaiSchema(t.Function.Parameters),
			}
		}

		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}
	}

	return config
}

func (m *Model) handleStreaming(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	out chan<- model.Response,
	errCh chan<- error,
) {
	var textBuilder strings.Builder

	var calls []core.FunctionCall

	emittedCallIDs := map[string]bool{}
	finishReason := "stop"

	for genResp, err := range m.client.Models.GenerateContentStream(ctx, m.opts.Model, contents, config) {
		if err != nil {
			errCh <- fmt.Errorf("gemini streaming error: %w", err)
			return
		}

		if len(genResp.Candidates) == 0 {
			continue
		}

		candidate := genResp.Candidates[0]
		if candidate.FinishReason != "" {
			finishReason = mapFinishReason(candidate.FinishReason)
		}

		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				textBuilder.WriteString(part.Text)

				out <- model.Response{
					Partial: true,
					Content: core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: part.Text}}},
				}
			}

			if part.FunctionCall != nil {
				fc := toFunctionCall(part.FunctionCall)

				// Gemini may repeat a function call part across chunks.
				if emittedCallIDs[fc.ID] {
					continue
				}

				emittedCallIDs[fc.ID] = true
				calls = append(calls, fc)

				out <- model.Response{
					Partial: true,
					Content: core.Content{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: fc}}},
				}
			}
		}
	}

	finalParts := make([]core.Part, 0, len(calls)+1)
	if textBuilder.Len() > 0 {
		finalParts = append(finalParts, core.TextPart{Text: textBuilder.String()})
	}

	for _, fc := range calls {
		finalParts = append(finalParts, core.FunctionCallPart{FunctionCall: fc})
	}

	out <- model.Response{
		Partial:      false,
		Content:      core.Content{Role: "assistant", Parts: finalParts},
		FinishReason: finishReason,
	}
}

func (m *Model) handleNonStreaming(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
	out chan<- model.Response,
	errCh chan<- error,
) {
	genResp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		errCh <- fmt.Errorf("gemini api error: %w", err)
		return
	}

	if len(genResp.Candidates) == 0 {
		errCh <- fmt.Errorf("empty response from gemini")
		return
	}

	candidate := genResp.Candidates[0]

	var parts []core.Part

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				parts = append(parts, core.TextPart{Text: part.Text})
			}

			if part.FunctionCall != nil {
				parts = append(parts, core.FunctionCallPart{FunctionCall: toFunctionCall(part.FunctionCall)})
			}
		}
	}

	resp := model.Response{
		Partial:      false,
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: mapFinishReason(candidate.FinishReason),
	}

	if genResp.UsageMetadata != nil {
		resp.Usage = &model.TokenUsage{
			PromptTokens:     int(genResp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(genResp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(genResp.UsageMetadata.TotalTokenCount),
		}
	}

	out <- resp
}

// toFunctionCall converts a genai function call, synthesizing a stable id
// when the API omits one so tool responses can be correlated.
func toFunctionCall(fc *genai.FunctionCall) core.FunctionCall {
	args := ""
	if fc.Args != nil {
		if b, err := json.Marshal(fc.Args); err == nil {
			args = string(b)
		}
	}

	id := fc.ID
	if id == "" {
		hash := sha256.Sum256([]byte(fc.Name + args))
		id = fmt.Sprintf("gemini-%x", hash[:8])
	}

	return core.FunctionCall{ID: id, Name: fc.Name, Arguments: args}
}

// toGenaiSchema converts a minimal JSON schema into a genai.Schema.
func toGenaiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	s := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}

	if desc, ok := schema["description"].(string); ok {
		s.Description = desc
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema)
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(propMap)
			}
		}
	}

	switch required := schema["required"].(type) {
	case []string:
		s.Required = required
	case []any:
		for _, r := range required {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}

	if enum, ok := schema["enum"].([]any); ok {
		for _, e := range enum {
			if es, ok := e.(string); ok {
				s.Enum = append(s.Enum, es)
			}
		}
	}

	return s
}

func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety:
		return "content_filter"
	default:
		return "stop"
	}
}

// Info returns metadata describing this adapter.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
