package agent

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smarttravel/smarttravel/core"
)

// ErrEscalated is returned when a child agent signals escalation.
var ErrEscalated = errors.New("child agent escalated")

// LoopAgent executes a single child agent repeatedly with configurable
// termination controls: max iterations, an output predicate, an interval
// between iterations, and escalation monitoring. The disruption monitor is
// built on it; the child checks for travel disruptions each cycle and
// escalates when replanning is required.
type LoopAgent struct {
	BaseAgent
	child       core.Agent
	maxIters    int
	interval    time.Duration
	stopOnError bool
	predicate   func(string) bool
}

// NewLoopAgent constructs a looping coordinator around a child agent.
// Defaults: 100 iterations, no interval, stop on first error.
func NewLoopAgent(name string, child core.Agent, opts ...LoopOption) *LoopAgent {
	la := &LoopAgent{
		BaseAgent:   NewBaseAgent(name),
		child:       child,
		maxIters:    100,
		interval:    0,
		stopOnError: true,
	}

	for _, o := range opts {
		o(la)
	}

	_ = la.SetSubAgents(child)

	return la
}

// LoopOption configures LoopAgent behavior.
type LoopOption func(*LoopAgent)

// WithMaxIters caps the number of iterations.
func WithMaxIters(n int) LoopOption {
	return func(l *LoopAgent) { l.maxIters = n }
}

// WithInterval sets the delay between iterations, useful for polling
// scenarios like periodic disruption checks. 0 means no delay.
func WithInterval(d time.Duration) LoopOption {
	return func(l *LoopAgent) { l.interval = d }
}

// WithStopOnError controls whether a child error terminates the loop
// (default) or the loop continues with the next iteration.
func WithStopOnError(stop bool) LoopOption {
	return func(l *LoopAgent) { l.stopOnError = stop }
}

// WithPredicate sets a termination condition evaluated against the text
// output of each iteration. Returning true ends the loop early.
//
// Example:
//
//	WithPredicate(func(output string) bool {
//	    return strings.Contains(output, "ALL_CLEAR")
//	})
func WithPredicate(pred func(string) bool) LoopOption {
	return func(l *LoopAgent) { l.predicate = pred }
}

// Run implements core.Agent, performing iterative execution with escalation
// detection. If a child emits an event with Escalate set, the loop forwards
// the event and returns nil immediately; escalation is early termination,
// not an error.
func (l *LoopAgent) Run(runCtx *core.RunContext) error {
	for i := 0; i < l.maxIters; i++ {
		select {
		case <-runCtx.Done():
			return runCtx.Err()
		default:
		}

		runCtx.LogDebug("loop.iteration.start", "agent", l.Name(), "iteration", i+1)

		output, childErr := runChildWithEscalationMonitoring(runCtx, l.child)

		if errors.Is(childErr, ErrEscalated) {
			runCtx.LogInfo("loop.escalated", "agent", l.Name(), "iteration", i+1)
			return nil
		}

		if childErr != nil {
			if l.stopOnError {
				return fmt.Errorf("loop iteration %d failed for agent %s: %w", i+1, l.child.Name(), childErr)
			}

			runCtx.LogWarn("loop.iteration.error", "agent", l.Name(), "iteration", i+1, "error", childErr.Error())
		}

		if l.predicate != nil && l.predicate(output) {
			runCtx.LogDebug("loop.predicate.satisfied", "agent", l.Name(), "iteration", i+1)
			return nil
		}

		if l.interval > 0 && i < l.maxIters-1 {
			select {
			case <-runCtx.Done():
				return runCtx.Err()
			case <-time.After(l.interval):
			}
		}
	}

	runCtx.LogDebug("loop.complete", "agent", l.Name(), "iterations", l.maxIters)

	return nil
}

// runChildWithEscalationMonitoring runs a child on its own emit/resume
// channels so escalation flags can be inspected before events reach the
// parent context. Forwarded final events go through the full persistence
// handshake: wait for the parent's resume signal, then release the child.
// The accumulated final text output feeds termination predicates. Returns
// ErrEscalated when the child raised the escalation flag.
func runChildWithEscalationMonitoring(runCtx *core.RunContext, child core.Agent) (string, error) {
	interceptChan := make(chan core.Event, 10)
	resumeChan := make(chan struct{}, 10)
	childCtx := runCtx.NewChildContext(interceptChan, resumeChan, runCtx.Branch)

	done := make(chan error, 1)

	go func() {
		defer close(done)
		done <- child.Run(childCtx)
	}()

	var output strings.Builder

	forward := func(event core.Event) (bool, error) {
		if event.Content != nil && !event.IsPartial() {
			for _, p := range event.Content.Parts {
				if tp, ok := p.(core.TextPart); ok {
					output.WriteString(tp.Text)
				}
			}
		}

		if err := runCtx.EmitEvent(event); err != nil {
			return false, err
		}

		// The engine resumes once per final event; partials get no signal.
		if !event.IsPartial() {
			if err := runCtx.WaitForResume(); err != nil {
				return false, err
			}

			select {
			case resumeChan <- struct{}{}:
			case <-runCtx.Done():
				return false, runCtx.Err()
			}
		}

		return event.Actions.Escalate != nil && *event.Actions.Escalate, nil
	}

	for {
		select {
		case event := <-interceptChan:
			escalated, err := forward(event)
			if err != nil {
				return output.String(), err
			}

			if escalated {
				runCtx.LogDebug("agent.escalation.detected", "child", child.Name())

				<-done

				return output.String(), ErrEscalated
			}

		case err := <-done:
			// The child may have emitted events right before returning;
			// forward what is still buffered before reporting its result.
			for {
				select {
				case event := <-interceptChan:
					escalated, ferr := forward(event)
					if ferr != nil {
						return output.String(), ferr
					}

					if escalated {
						return output.String(), ErrEscalated
					}
				default:
					return output.String(), err
				}
			}

		case <-runCtx.Done():
			return output.String(), runCtx.Err()
		}
	}
}

// CreateEscalationEvent constructs an event with the Escalate flag set.
// Agents use it to signal that the current task needs a higher-level agent,
// e.g. when a critical disruption requires replanning the whole itinerary.
func CreateEscalationEvent(invocationID, author string, content *core.Content) core.Event {
	escalate := true
	ev := core.NewEvent(invocationID, author)
	ev.Actions.Escalate = &escalate
	ev.Content = content

	return ev
}
