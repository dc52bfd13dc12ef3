package models

import "time"

type EventType string

const (
	EventTypeDatasetLoaded       EventType = "dataset_loaded"
	EventTypeDatasetReloadFailed EventType = "dataset_reload_failed"
	EventTypeStatusEvaluated     EventType = "status_evaluated"
	EventTypeExported            EventType = "exported"
	EventTypeAlert               EventType = "alert"
	EventTypeError               EventType = "error"
)

func AllEventTypes() []EventType {
	return []EventType{
		EventTypeDatasetLoaded,
		EventTypeDatasetReloadFailed,
		EventTypeStatusEvaluated,
		EventTypeExported,
		EventTypeAlert,
		EventTypeError,
	}
}

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	Server    string        `json:"server,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, server, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		Server:    server,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// DatasetInfo summarizes a freshly loaded measurement table.
type DatasetInfo struct {
	Source  string     `json:"source"`
	Servers []string   `json:"servers"`
	Rows    int        `json:"rows"`
	First   *time.Time `json:"first,omitempty"`
	Last    *time.Time `json:"last,omitempty"`
}

func (t *Table) Info() DatasetInfo {
	info := DatasetInfo{
		Source:  t.Source,
		Servers: append([]string(nil), t.Servers...),
		Rows:    len(t.Rows),
	}
	if first, last, ok := t.Span(); ok {
		info.First = &first
		info.Last = &last
	}
	return info
}
