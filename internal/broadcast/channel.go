package broadcast

// Listener receives every envelope published on a Channel, broadcast or not.
type Listener func(Envelope)

// Channel is the message transport shared by the background process and the
// UI surfaces. Implementations deliver envelopes to listeners in the order
// they were emitted.
type Channel interface {
	// AddListener registers l and returns an id for RemoveListener.
	AddListener(l Listener) string
	// RemoveListener unregisters the listener with the given id.
	// Returns false if no such listener exists.
	RemoveListener(id string) bool
}
