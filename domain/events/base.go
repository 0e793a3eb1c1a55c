package events

import (
	"time"

	"github.com/google/uuid"

	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

const (
	TypeSessionDetailRequested = "session.detail_requested"
	TypeIdeaDetailRequested    = "idea.detail_requested"
	TypeGraphRebuilt           = "graph.rebuilt"
)

// Detail Events

// SessionDetailRequested is raised when a session is double-clicked
type SessionDetailRequested struct {
	BaseEvent
	SessionID valueobjects.NodeID  `json:"session_id"`
	Session   entities.SessionNode `json:"session"`
}

// NewSessionDetailRequested creates a SessionDetailRequested event
func NewSessionDetailRequested(session entities.SessionNode, timestamp time.Time) SessionDetailRequested {
	return SessionDetailRequested{
		BaseEvent: newBase(session.ID.String(), TypeSessionDetailRequested, timestamp),
		SessionID: session.ID,
		Session:   session,
	}
}

// IdeaDetailRequested is raised when an idea is clicked
type IdeaDetailRequested struct {
	BaseEvent
	SessionID valueobjects.NodeID `json:"session_id"`
	MessageID string              `json:"message_id"`
	Idea      entities.IdeaNode   `json:"idea"`
}

// NewIdeaDetailRequested creates an IdeaDetailRequested event
func NewIdeaDetailRequested(idea entities.IdeaNode, timestamp time.Time) IdeaDetailRequested {
	return IdeaDetailRequested{
		BaseEvent: newBase(idea.ID.String(), TypeIdeaDetailRequested, timestamp),
		SessionID: idea.ParentSessionID,
		MessageID: idea.MessageID,
		Idea:      idea,
	}
}

// Graph Events

// GraphRebuilt is raised after a new snapshot replaced the previous one
type GraphRebuilt struct {
	BaseEvent
	Sessions     int `json:"sessions"`
	Ideas        int `json:"ideas"`
	ParentLinks  int `json:"parent_links"`
	TagLinks     int `json:"tag_links"`
	SkippedInput int `json:"skipped_input"`
}

// NewGraphRebuilt creates a GraphRebuilt event
func NewGraphRebuilt(sessions, ideas, parentLinks, tagLinks, skipped int, timestamp time.Time) GraphRebuilt {
	return GraphRebuilt{
		BaseEvent:    newBase("graph", TypeGraphRebuilt, timestamp),
		Sessions:     sessions,
		Ideas:        ideas,
		ParentLinks:  parentLinks,
		TagLinks:     tagLinks,
		SkippedInput: skipped,
	}
}
