// Package openai implements model.Model on top of the OpenAI Chat
// Completions API, including streaming and function/tool calling. It adapts
// the normalized Request/Response structures into the SDK's message format
// and back.
package openai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
)

// Options configures the OpenAI adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
}

// Model wraps the OpenAI Chat Completions API behind model.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates an adapter using the official client. Without an explicit
// APIKey option the SDK reads OPENAI_API_KEY from the environment.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates an adapter from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
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

		params := m.buildParams(req)

		if req.Stream {
			m.generateStream(ctx, params, out, errCh)
			return
		}

		m.generateOnce(ctx, params, out, errCh)
	}()

	return out, errCh
}

func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildConversation(req.Contents),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	for _, tdef := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Function.Name,
				Description: openai.String(tdef.Function.Description),
				Parameters:  tdef.Function.Parameters,
			},
		})
	}

	return params
}

// buildConversation converts normalized contents into OpenAI chat messages.
// The API requires each tool message to directly follow the assistant
// message carrying its tool call, so tool outputs are indexed up front and
// stitched in behind their calls; outputs whose call never appears in the
// history are appended at the end in arrival order.
func buildConversation(contents []core.Content) []openai.ChatCompletionMessageParamUnion {
	toolOutputs := indexToolOutputs(contents)

	var messages []openai.ChatCompletionMessageParamUnion

	for _, c := range contents {
		switch c.Role {
		case "tool":
			// Stitched in behind the originating assistant message.
		case "system":
			messages = append(messages, openai.SystemMessage(concatText(c.Parts)))
		case "assistant":
			messages = append(messages, assistantMessages(c, toolOutputs)...)
		default:
			// User and unknown roles map to user messages.
			if text := concatText(c.Parts); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}

	for _, id := range toolOutputs.order {
		if output, ok := toolOutputs.byCallID[id]; ok {
			messages = append(messages, openai.ToolMessage(output, id))
		}
	}

	return messages
}

// toolOutputIndex holds tool outputs keyed by function call id, remembering
// first-seen order for outputs left over after stitching.
type toolOutputIndex struct {
	byCallID map[string]string
	order    []string
}

func indexToolOutputs(contents []core.Content) *toolOutputIndex {
	idx := &toolOutputIndex{byCallID: map[string]string{}}

	for _, c := range contents {
		if c.Role != "tool" {
			continue
		}

		for _, p := range c.Parts {
			fr, ok := p.(core.FunctionResponsePart)
			if !ok || fr.FunctionResponse.ID == "" {
				continue
			}

			id := fr.FunctionResponse.ID
			if _, seen := idx.byCallID[id]; seen {
				continue
			}

			if s, ok := fr.FunctionResponse.Response.(string); ok {
				idx.byCallID[id] = s
			} else {
				idx.byCallID[id] = fmt.Sprintf("%v", fr.FunctionResponse.Response)
			}

			idx.order = append(idx.order, id)
		}
	}

	return idx
}

// assistantMessages renders one assistant content as chat messages: a plain
// assistant message when it holds no tool calls, otherwise a tool-calling
// assistant message followed by the matching tool outputs.
func assistantMessages(c core.Content, toolOutputs *toolOutputIndex) []openai.ChatCompletionMessageParamUnion {
	var toolCalls []openai.ChatCompletionMessageToolCallParam

	var callIDs []string

	for _, p := range c.Parts {
		fc, ok := p.(core.FunctionCallPart)
		if !ok {
			continue
		}

		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID:   fc.FunctionCall.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      fc.FunctionCall.Name,
				Arguments: fc.FunctionCall.Arguments,
			},
		})
		callIDs = append(callIDs, fc.FunctionCall.ID)
	}

	if len(toolCalls) == 0 {
		return []openai.ChatCompletionMessageParamUnion{openai.AssistantMessage(concatText(c.Parts))}
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		{OfAssistant: &openai.ChatCompletionAssistantMessageParam{
			Role:      "assistant",
			ToolCalls: toolCalls,
		}},
	}

	for _, id := range callIDs {
		if id == "" {
			continue
		}

		if output, ok := toolOutputs.byCallID[id]; ok {
			messages = append(messages, openai.ToolMessage(output, id))
			delete(toolOutputs.byCallID, id)
		}
	}

	return messages
}

func concatText(parts []core.Part) string {
	var b strings.Builder

	for _, p := range parts {
		if tp, ok := p.(core.TextPart); ok {
			b.WriteString(tp.Text)
		}
	}

	return b.String()
}

// callAggregator reassembles streamed tool call fragments. Fragments for one
// call share an index; id, name and argument text trickle in across chunks.
type callAggregator struct {
	calls map[int64]*core.FunctionCall
}

func newCallAggregator() *callAggregator {
	return &callAggregator{calls: map[int64]*core.FunctionCall{}}
}

// absorb merges one delta fragment and returns the call's current state.
func (a *callAggregator) absorb(index int64, id, name, arguments string) core.FunctionCall {
	call, ok := a.calls[index]
	if !ok {
		call = &core.FunctionCall{}
		a.calls[index] = call
	}

	if id != "" {
		call.ID = id
	}

	if name != "" {
		call.Name = name
	}

	call.Arguments += arguments

	return *call
}

// completed returns the assembled calls ordered by stream index.
func (a *callAggregator) completed() []core.FunctionCall {
	indices := make([]int64, 0, len(a.calls))
	for i := range a.calls {
		indices = append(indices, i)
	}

	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	calls := make([]core.FunctionCall, 0, len(indices))
	for _, i := range indices {
		calls = append(calls, *a.calls[i])
	}

	return calls
}

func (m *Model) generateStream(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, params)

	var text strings.Builder

	agg := newCallAggregator()

	for stream.Next() {
		chunk := stream.Current()

		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				text.WriteString(choice.Delta.Content)

				out <- model.Response{
					ID:      chunk.ID,
					Partial: true,
					Content: core.Content{
						Role:  "assistant",
						Parts: []core.Part{core.TextPart{Text: choice.Delta.Content}},
					},
				}
			}

			for _, tc := range choice.Delta.ToolCalls {
				call := agg.absorb(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)

				out <- model.Response{
					ID:      chunk.ID,
					Partial: true,
					Content: core.Content{
						Role:  "assistant",
						Parts: []core.Part{core.FunctionCallPart{FunctionCall: call}},
					},
				}
			}

			if choice.FinishReason != "" {
				out <- finalResponse(chunk.ID, text.String(), agg.completed(), choice.FinishReason, toUsage(chunk.Usage))
			}
		}
	}

	if err := stream.Err(); err != nil {
		errCh <- fmt.Errorf("openai streaming error: %w", err)
	}
}

func (m *Model) generateOnce(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		errCh <- fmt.Errorf("openai api error: %w", err)
		return
	}

	if len(resp.Choices) == 0 {
		errCh <- fmt.Errorf("no choices returned")
		return
	}

	choice := resp.Choices[0]

	calls := make([]core.FunctionCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		calls = append(calls, core.FunctionCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	out <- finalResponse(resp.ID, choice.Message.Content, calls, choice.FinishReason, toUsage(resp.Usage))
}

func finalResponse(id, text string, calls []core.FunctionCall, finishReason string, usage *model.TokenUsage) model.Response {
	parts := make([]core.Part, 0, len(calls)+1)

	if text != "" {
		parts = append(parts, core.TextPart{Text: text})
	}

	for _, call := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: call})
	}

	return model.Response{
		ID:           id,
		Partial:      false,
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: finishReason,
		Usage:        usage,
	}
}

func toUsage(u openai.CompletionUsage) *model.TokenUsage {
	if u.TotalTokens == 0 {
		return nil
	}

	return &model.TokenUsage{
		PromptTokens:     int(u.PromptTokens),
		CompletionTokens: int(u.CompletionTokens),
		TotalTokens:      int(u.TotalTokens),
	}
}

// Info returns metadata describing this adapter.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
