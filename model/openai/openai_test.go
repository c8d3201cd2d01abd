package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
)

func TestBuildConversation_StitchesToolOutputs(t *testing.T) {
	contents := []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "find flights to Lisbon"}}},
		{Role: "assistant", Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID: "call-1", Name: "search_flights", Arguments: `{"destination":"Lisbon"}`,
		}}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID: "call-1", Name: "search_flights", Response: "two options",
		}}}},
		{Role: "assistant", Parts: []core.Part{core.TextPart{Text: "Two options found."}}},
	}

	messages := buildConversation(contents)
	require.Len(t, messages, 4)

	assert.NotNil(t, messages[0].OfUser)

	require.NotNil(t, messages[1].OfAssistant)
	require.Len(t, messages[1].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", messages[1].OfAssistant.ToolCalls[0].ID)

	// The tool output lands directly behind the assistant message that
	// requested it, as the API requires.
	require.NotNil(t, messages[2].OfTool)
	assert.Equal(t, "call-1", messages[2].OfTool.ToolCallID)

	assert.NotNil(t, messages[3].OfAssistant)
}

func TestBuildConversation_OrphanedToolOutputAppended(t *testing.T) {
	contents := []core.Content{
		{Role: "user", Parts: []core.Part{core.TextPart{Text: "hi"}}},
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID: "call-9", Name: "search_hotels", Response: "three hotels",
		}}}},
	}

	messages := buildConversation(contents)
	require.Len(t, messages, 2)

	require.NotNil(t, messages[1].OfTool)
	assert.Equal(t, "call-9", messages[1].OfTool.ToolCallID)
}

func TestCallAggregator_AssemblesInIndexOrder(t *testing.T) {
	agg := newCallAggregator()

	agg.absorb(1, "call-b", "search_hotels", `{"des`)
	agg.absorb(0, "call-a", "search_flights", `{"destination":`)
	agg.absorb(0, "", "", `"Lisbon"}`)
	last := agg.absorb(1, "", "", `tination":"Lisbon"}`)

	assert.Equal(t, `{"destination":"Lisbon"}`, last.Arguments)

	calls := agg.completed()
	require.Len(t, calls, 2)

	assert.Equal(t, "call-a", calls[0].ID)
	assert.Equal(t, "search_flights", calls[0].Name)
	assert.Equal(t, `{"destination":"Lisbon"}`, calls[0].Arguments)
	assert.Equal(t, "call-b", calls[1].ID)
	assert.Equal(t, "search_hotels", calls[1].Name)
}

func TestFinalResponseAndUsage(t *testing.T) {
	usage := toUsage(openai.CompletionUsage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17})
	require.NotNil(t, usage)
	assert.Equal(t, 12, usage.PromptTokens)
	assert.Equal(t, 17, usage.TotalTokens)

	assert.Nil(t, toUsage(openai.CompletionUsage{}))

	resp := finalResponse("resp-1", "Done.", []core.FunctionCall{{ID: "call-1", Name: "search_flights"}}, "tool_calls", usage)
	assert.False(t, resp.Partial)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.Content.Parts, 2)
	assert.Equal(t, "Done.", resp.Content.Parts[0].(core.TextPart).Text)
}
