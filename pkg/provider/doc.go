// Package provider implements AI backends for the chat orchestrator.
//
// Invariants:
// - Every adapter serializes the system prompt first, the history in order,
//   then the new user message as the final turn.
// - Role translation to provider vocabulary stays inside the adapter.
// - A response missing the expected structure is a parse error, never a panic.
//
// Usage:
//
//	backend, _ := provider.New(provider.Config{Provider: "gemini", APIKey: key})
//	reply, _ := backend.Respond(ctx, systemPrompt, history, "What is this about?")
//	_ = reply
package provider
