package core

import (
	"context"
	"testing"
)

func TestToolContext_BasicFunctionality(t *testing.T) {
	rc, _ := newRunContextForTest()

	tc := NewToolContext(rc, "test-call-id")
	if !tc.IsValid() {
		t.Fatal("expected valid tool context")
	}

	if tc.SessionID() != "test-session" {
		t.Errorf("session id mismatch")
	}

	if tc.RunID() != "test-run" {
		t.Errorf("run id mismatch")
	}

	if tc.FunctionCallID() != "test-call-id" {
		t.Errorf("function call id mismatch")
	}

	if tc.AgentName() != "TestAgent" {
		t.Errorf("agent name mismatch")
	}

	if tc.Logger() == nil {
		t.Errorf("expected logger")
	}
}

func TestToolContext_StateManagement(t *testing.T) {
	tc := NewToolContext(NewRunContext(
		context.Background(), "test-session", "test-run", AgentInfo{Name: "TestAgent", Type: "test"},
		Content{}, 0, nil, nil, nil, nil, nil, nil, nil,
	), "test-call-id")

	tc.SetState("test_key", "test_value")

	actions := tc.Actions()
	if actions.StateDelta == nil {
		t.Fatal("missing state delta")
	}

	if v, ok := actions.StateDelta["test_key"]; !ok || v != "test_value" {
		t.Errorf("unexpected state delta: %+v", actions.StateDelta)
	}
}

func TestToolContext_AgentFlowControl(t *testing.T) {
	rc, _ := newRunContextForTest()
	tc := NewToolContext(rc, "test-call-id")

	tc.SkipSummarization()
	tc.TransferToAgent("other-agent")
	tc.Escalate()

	actions := tc.Actions()
	if actions.SkipSummarization == nil || !*actions.SkipSummarization {
		t.Error("skip summarization not set")
	}

	if actions.TransferToAgent == nil || *actions.TransferToAgent != "other-agent" {
		t.Error("transfer not set")
	}

	if actions.Escalate == nil || !*actions.Escalate {
		t.Error("escalate not set")
	}
}

func TestToolContext_ArtifactManagement(t *testing.T) {
	rc, _ := newRunContextForTest()
	tc := NewToolContext(rc, "test-call-id")

	if err := tc.SaveArtifact("a1", []byte("data")); err != nil {
		t.Fatalf("save artifact: %v", err)
	}

	b, err := tc.LoadArtifact("a1")
	if err != nil || string(b) != "data" {
		t.Fatalf("load artifact mismatch: %v %s", err, string(b))
	}

	list, err := tc.ListArtifacts()
	if err != nil || len(list) != 1 || list[0] != "a1" {
		t.Fatalf("list artifacts mismatch: %v %v", err, list)
	}
}

func TestToolContext_MemoryManagement(t *testing.T) {
	rc, _ := newRunContextForTest()
	tc := NewToolContext(rc, "test-call-id")

	if err := tc.StoreMemory("content", map[string]any{"test": true}); err != nil {
		t.Fatalf("store memory: %v", err)
	}

	res, err := tc.SearchMemory("test", 10)
	if err != nil || len(res) != 1 {
		t.Fatalf("search memory: %v len=%d", err, len(res))
	}
}

func TestToolContext_Validation(t *testing.T) {
	if (&ToolContext{}).IsValid() {
		t.Error("invalid context should not be valid")
	}

	rc, _ := newRunContextForTest()
	tc := NewToolContext(rc, "test-call-id")

	if !tc.IsValid() {
		t.Error("expected valid tool context")
	}

	if err := tc.Validate(); err != nil {
		t.Errorf("validate error: %v", err)
	}
}
