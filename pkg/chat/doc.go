// Package chat manages document-grounded conversation sessions.
//
// Invariants:
// - A session's system prompt always reflects the document it was created with.
// - History is append-only; exactly one user and one assistant message are
//   appended per successful send, user first.
// - Sends against the same session are serialized; different sessions never
//   block each other.
//
// Usage:
//
//	store := chat.NewStore(chat.NewPromptBuilder())
//	orch := chat.NewOrchestrator(store, backend, nil, nil)
//	session, _ := orch.CreateSession("report.txt", "The sky is blue.")
//	reply, _ := orch.SendMessage(context.Background(), session.ID, "What color is the sky?")
//	_ = reply
package chat
