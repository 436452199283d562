package schemas

import "context"

// -- Collaborator Interfaces --

// ProfileService fetches the canonical user profile from the remote backend.
// The orchestrator layers a persistent cache on top of it.
type ProfileService interface {
	// Fetch returns the profile, or ErrNoProfile-style errors from the
	// implementing package when the user is not authenticated or has no
	// stored profile.
	Fetch(ctx context.Context) (*UserProfile, error)
}

// KeyValueStore is the persistent store used for the profile cache and the
// capped audit log. Implementations must be safe for use from a single
// orchestrator; no cross-process locking is assumed.
type KeyValueStore interface {
	// Get unmarshals the stored value for key into v and reports whether the
	// key existed.
	Get(key string, v any) (bool, error)
	// Put marshals v and persists it under key.
	Put(key string, v any) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(key string) error
}

// Notifier delivers fire-and-forget outcome messages to the host messaging
// channel. Delivery failures are swallowed by implementations.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
