package events

import "time"

// Source identifies this service on the event bus.
const SourceOrgChart = "orgchart.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event types
const (
	TypeNodeAdded     = "chart.node_added"
	TypeNodeUpdated   = "chart.node_updated"
	TypeNodeRemoved   = "chart.node_removed"
	TypeAssetUploaded = "chart.asset_uploaded"
)

// NodeAdded is raised after a node was appended to a chart
type NodeAdded struct {
	BaseEvent
	NodeID   string `json:"node_id"`
	ParentID string `json:"parent_id"`
	Size     int    `json:"size"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(chartKey, nodeID, parentID string, size int, timestamp time.Time) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: chartKey,
			EventType:   TypeNodeAdded,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:   nodeID,
		ParentID: parentID,
		Size:     size,
	}
}

// NodeUpdated is raised after fields of a node were merged
type NodeUpdated struct {
	BaseEvent
	NodeID string   `json:"node_id"`
	Fields []string `json:"fields"`
}

// NewNodeUpdated creates a NodeUpdated event
func NewNodeUpdated(chartKey, nodeID string, fields []string, timestamp time.Time) NodeUpdated {
	return NodeUpdated{
		BaseEvent: BaseEvent{
			AggregateID: chartKey,
			EventType:   TypeNodeUpdated,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID: nodeID,
		Fields: fields,
	}
}

// NodeRemoved is raised after nodes with an id were filtered out.
// Orphaned lists the children left with a dangling parent id.
type NodeRemoved struct {
	BaseEvent
	NodeID   string   `json:"node_id"`
	Removed  int      `json:"removed"`
	Orphaned []string `json:"orphaned,omitempty"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(chartKey, nodeID string, removed int, orphaned []string, timestamp time.Time) NodeRemoved {
	return NodeRemoved{
		BaseEvent: BaseEvent{
			AggregateID: chartKey,
			EventType:   TypeNodeRemoved,
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:   nodeID,
		Removed:  removed,
		Orphaned: orphaned,
	}
}

// AssetUploaded is raised after an upload was stored and registered
type AssetUploaded struct {
	BaseEvent
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// NewAssetUploaded creates an AssetUploaded event
func NewAssetUploaded(assetID, url, fileName, contentType string, timestamp time.Time) AssetUploaded {
	return AssetUploaded{
		BaseEvent: BaseEvent{
			AggregateID: assetID,
			EventType:   TypeAssetUploaded,
			Timestamp:   timestamp,
			Version:     1,
		},
		URL:         url,
		FileName:    fileName,
		ContentType: contentType,
	}
}
