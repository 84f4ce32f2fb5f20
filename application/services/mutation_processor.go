package services

import (
	"context"
	"strings"
	"sync"

	"orgchart-backend/application/commands"
	"orgchart-backend/application/commands/bus"
	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// Operation names accepted by the processor
const (
	OperationAdd    = "add"
	OperationUpdate = "update"
	OperationRemove = "remove"
)

// Success and protocol messages
const (
	MsgNodeAdded      = "Node added successfully."
	MsgNodeUpdated    = "Node updated successfully."
	MsgNodeRemoved    = "Node removed successfully."
	MsgUnknownAction  = "Unknown action type."
	MsgInternalFailed = "Failed to process chart mutation."
)

// Mutation is one client request against the chart. Payload is the raw
// JSON node for add and update; NodeID is used by remove.
type Mutation struct {
	Operation string
	Payload   []byte
	NodeID    string
}

// Outcome is the result of a mutation. UpdatedCollection is set only on
// success and holds the full chart as written.
type Outcome struct {
	Success           bool
	Message           string
	UpdatedCollection chart.Collection
	Kind              errors.ErrorType
}

// MutationProcessor turns client mutations into authoritative changes of the
// stored chart, one operation per call.
type MutationProcessor struct {
	bus    *bus.CommandBus
	logger *zap.Logger

	// Serializes read-modify-write within this process. Separate processes
	// sharing one store are last-writer-wins.
	mu sync.Mutex
}

// NewMutationProcessor creates a processor dispatching through commandBus
func NewMutationProcessor(commandBus *bus.CommandBus, logger *zap.Logger) *MutationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationProcessor{
		bus:    commandBus,
		logger: logger,
	}
}

// Apply executes exactly one mutation. It never returns an error; every
// failure is described by the outcome.
func (p *MutationProcessor) Apply(ctx context.Context, m Mutation) Outcome {
	cmd, successMsg, err := toCommand(m)
	if err != nil {
		return p.failure(m, err)
	}

	p.mu.Lock()
	c, err := p.bus.Send(ctx, cmd)
	p.mu.Unlock()

	if err != nil {
		return p.failure(m, err)
	}

	return Outcome{
		Success:           true,
		Message:           successMsg,
		UpdatedCollection: c,
	}
}

func toCommand(m Mutation) (bus.Command, string, error) {
	switch strings.ToLower(strings.TrimSpace(m.Operation)) {
	case OperationAdd:
		node, err := chart.ParseNode(m.Payload)
		if err != nil {
			return nil, "", errors.NewValidationError(commands.MsgInvalidNewNode).WithCause(err)
		}
		return commands.AddNodeCommand{Node: node}, MsgNodeAdded, nil

	case OperationUpdate:
		patch, err := chart.ParseNode(m.Payload)
		if err != nil {
			return nil, "", errors.NewValidationError(commands.MsgInvalidUpdate).WithCause(err)
		}
		return commands.UpdateNodeCommand{Patch: patch}, MsgNodeUpdated, nil

	case OperationRemove:
		return commands.RemoveNodeCommand{NodeID: strings.TrimSpace(m.NodeID)}, MsgNodeRemoved, nil

	default:
		return nil, "", errors.NewValidationError(MsgUnknownAction)
	}
}

func (p *MutationProcessor) failure(m Mutation, err error) Outcome {
	kind := errors.TypeOf(err)
	message := MsgInternalFailed
	if appErr := errors.GetAppError(err); appErr != nil && appErr.Type != errors.ErrorTypeInternal {
		message = appErr.Message
	}

	fields := []zap.Field{
		zap.String("operation", m.Operation),
		zap.String("errorType", string(kind)),
		zap.Error(err),
	}
	if kind == errors.ErrorTypePersistence || kind == errors.ErrorTypeInternal {
		p.logger.Error("Chart mutation failed", fields...)
	} else {
		p.logger.Info("Chart mutation rejected", fields...)
	}

	return Outcome{
		Success: false,
		Message: message,
		Kind:    kind,
	}
}
