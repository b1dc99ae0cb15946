package domain

import "github.com/google/uuid"

// Repository lifecycle notifications. These are plain data carriers; the
// repository publishes them to an optional EventPublisher and attaches no
// behavior of its own.

// BeforeSaveEvent is published before an entity is created or updated.
type BeforeSaveEvent struct {
	Entity Entity
}

// AfterSaveEvent is published after an entity has been created or updated.
type AfterSaveEvent struct {
	Entity Entity
}

// AfterDeleteEvent is published after an entity has been removed.
type AfterDeleteEvent struct {
	EntityID   uuid.UUID
	EntityType string
}

// BeforeLinkSaveEvent is published before a child object is linked to its
// parent under the named relation.
type BeforeLinkSaveEvent struct {
	Source   Entity
	Child    any
	Relation string
}

// AfterLinkSaveEvent is published after a child object has been linked to its
// parent under the named relation.
type AfterLinkSaveEvent struct {
	Source   Entity
	Child    any
	Relation string
}

// AfterLinkDeleteEvent is published after a child object has been unlinked
// from its parent.
type AfterLinkDeleteEvent struct {
	Source   Entity
	Child    any
	Relation string
}

// EventPublisher receives repository lifecycle events. A nil publisher
// disables event delivery.
type EventPublisher func(event any)
