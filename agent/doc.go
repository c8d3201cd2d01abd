// Package agent contains the agent implementations used to compose the
// travel planning workflow. It covers three concerns:
//
//  1. Base lifecycle and hierarchy plumbing (BaseAgent)
//  2. Coordination patterns (SequentialAgent, ParallelAgent, LoopAgent)
//  3. Model-backed conversational / tool-calling agents (ModelAgent)
//
// Agents nest arbitrarily via SetSubAgents / FindAgent; a ModelAgent's Run
// integrates with the model, tool and flow packages to stream events into
// the parent run context. Persistence, model specifics and tool registries
// live in their own packages to avoid cyclic dependencies.
package agent
