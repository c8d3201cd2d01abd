package smarttravel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/agent"
	"github.com/smarttravel/smarttravel/model"
	"github.com/smarttravel/smarttravel/travel"
)

func TestSmartTravel_InvokeSync(t *testing.T) {
	st := New()

	llm := model.NewMockModel("mock-travel", "mock")
	llm.AddResponse("plan a weekend in Lisbon", "A relaxed two-day Lisbon plan: Alfama, Belém and the river front.")

	planner := agent.NewModelAgent("Planner", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText("You are a travel planner.")
		o.EnableStreaming = false
	})
	st.RegisterAgent(planner)

	invocationID, events, err := st.InvokeSync(context.Background(), "trip-1", "Planner", UserText("plan a weekend in Lisbon"))
	require.NoError(t, err)
	assert.NotEmpty(t, invocationID)
	require.NotEmpty(t, events)

	final := events[len(events)-1]
	assert.Equal(t, "Planner", final.Author)
	require.NotNil(t, final.Content)
}

func TestSmartTravel_ConciergeRegistration(t *testing.T) {
	st := New()

	concierge := travel.NewConcierge(model.NewMockModel("mock-travel", "mock"))
	st.RegisterAgent(concierge)

	// The façade keeps the session store reachable for state inspection.
	require.NotNil(t, st.SessionStore())

	_, err := st.SessionStore().Create("trip-9")
	require.NoError(t, err)

	sess, err := st.SessionStore().Get("trip-9")
	require.NoError(t, err)
	assert.Equal(t, "trip-9", sess.ID)
}

func TestSmartTravel_Cancel_Unknown(t *testing.T) {
	st := New()
	assert.Error(t, st.Cancel("missing"))
}

func TestUserText(t *testing.T) {
	content := UserText("hello")

	assert.Equal(t, "user", content.Role)
	require.Len(t, content.Parts, 1)
}
