// Package conversation holds the client-side message log of a study session.
//
// A conversation is a flat, append-only sequence of messages. Each message
// carries one of three payloads: the question typed by the user, the answer
// returned by the service (with detected subject, model and cited sources), or
// a generic error notice when a turn failed.
//
// The Store is the only implementation of Manager. Presentation code reads it
// through Snapshot and CurrentSubject and learns about new entries through
// observers.
package conversation

import "github.com/go-go-golems/scholar/pkg/subjects"

// Manager is the read/append surface of a conversation log.
type Manager interface {
	Append(msg Message)
	Snapshot() Conversation
	CurrentSubject() subjects.Subject
	Len() int
}
