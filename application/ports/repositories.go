package ports

import (
	"context"

	"orgchart-backend/domain/assets"
	"orgchart-backend/domain/chart"
	"orgchart-backend/domain/events"
)

// ChartStore persists the single chart document.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ChartStore interface {
	// Read returns the current collection. It never fails: a missing or
	// unreadable document reads as the empty collection.
	Read(ctx context.Context) chart.Collection

	// Load is Read for callers that write back what they read. A missing
	// document is the empty collection; a failed or corrupt read is an error.
	Load(ctx context.Context) (chart.Collection, error)

	// Write atomically replaces the whole document.
	Write(ctx context.Context, c chart.Collection) error

	// Reset deletes the document so the next Read is empty.
	Reset(ctx context.Context) error

	// Initialize writes the seed chart when no document exists yet.
	Initialize(ctx context.Context) error
}

// StoredObject describes a file accepted by a MediaSink.
type StoredObject struct {
	URL         string
	ContentType string
	Size        int
}

// MediaSink stores uploaded files and hands back a public reference.
type MediaSink interface {
	// Put stores data under key. Unsupported or oversize files are rejected here.
	Put(ctx context.Context, key, fileName string, data []byte) (StoredObject, error)
}

// AssetRegistry keeps references to uploaded files
type AssetRegistry interface {
	Register(ctx context.Context, asset assets.Asset) error
	Get(ctx context.Context, id string) (assets.Asset, error)
	List(ctx context.Context) ([]assets.Asset, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
