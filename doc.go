// Package agent implements a primary reasoning process that delegates
// bounded sub-tasks to context-isolated workers while sharing a virtual file
// store and a task list with them.
//
// The pieces:
//
//   - [State] is the Shared State: message history, todos and files.
//     [MergeFiles] is the right-biased union used to reconcile worker output.
//   - [Capability] is a named callable; [CapabilityRegistry] resolves them.
//   - [Agent] is an executable context (directive, capabilities, [Model]).
//     Agent.Run drives the model against a State until it ends its turn.
//   - [Client] hosts the primary agent over one long-lived State.
//   - [WriteTodos] and [ReadTodos] manage the task list.
//
// # Quick Start
//
//	model := agent.NewModel(anthropic.ModelClaudeSonnet4_5)
//	a := agent.NewAgent(
//	    agent.WithModel(model),
//	    agent.WithDirective("You are a careful researcher."),
//	    agent.WithCapabilities(tools.FileCapabilities()...),
//	)
//	st, err := a.RunPrompt(ctx, "Summarize what you know about Go generics.")
//
// # Sub-packages
//
//   - [subagent] declares specializations and delegates tasks to them.
//   - [tools] provides the capabilities (task, todos, virtual files, search).
//   - [research] provides search, fetch and summarization collaborators.
//   - [session] provides an in-memory StateStore.
package agent
