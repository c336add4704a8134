package events

import "time"

// Type names the SSE event a change is delivered as.
type Type string

const (
	Created Type = "entity.created"
	Updated Type = "entity.updated"
	Deleted Type = "entity.deleted"
	Batch   Type = "entity.batch"

	// ConfigUpdated fires whenever a public content document is saved, reset or
	// restored. The layout provider and the site's live-reload script listen for it.
	ConfigUpdated Type = "techsafi_config_updated"
)

// Entity is the kind of record an event is about.
type Entity string

const (
	EntityContent Entity = "content"
	EntityLead    Entity = "lead"
	EntityMedia   Entity = "media"
	EntityPost    Entity = "post"
	EntityPlan    Entity = "pricing_plan"
	EntityProject Entity = "project"
)

// Topics group subscribers. Anonymous clients may only join TopicContent.
const (
	TopicContent = "content"
	TopicAdmin   = "admin"
)

type ActorKind string

const (
	ActorAdmin   ActorKind = "admin"
	ActorVisitor ActorKind = "visitor"
	ActorSystem  ActorKind = "system"
)

// Actor is who caused a change.
type Actor struct {
	Kind ActorKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// Event is one change notification. ID is empty for batch events.
type Event struct {
	Type      Type           `json:"type"`
	Entity    Entity         `json:"entity"`
	ID        string         `json:"id,omitempty"`
	IDs       []string       `json:"ids,omitempty"`
	Topic     string         `json:"topic"`
	Revision  int64          `json:"revision,omitempty"`
	Actor     *Actor         `json:"actor,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Options carries the optional parts of an emitted event.
type Options struct {
	Data     map[string]any
	Actor    *Actor
	Revision int64
}
