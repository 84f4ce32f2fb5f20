package commands

import (
	"strings"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"
)

// User-facing messages returned for rejected commands.
const (
	MsgInvalidNewNode     = "Invalid new node data provided."
	MsgInvalidUpdate      = "Invalid update node data or missing ID."
	MsgMissingRemovalID   = "Missing node ID for removal."
	MsgNodeNotFoundUpdate = "Node not found for update."
	MsgNodeNotFoundRemove = "Node not found for removal."
	MsgSaveFailed         = "Failed to save chart data."
	MsgLoadFailed         = "Failed to load chart data."
)

// AddNodeCommand appends a node to the chart.
type AddNodeCommand struct {
	Node chart.Node
}

// Validate checks the node was parsed at the boundary.
func (c AddNodeCommand) Validate() error {
	if c.Node.IsZero() || c.Node.ID() == "" {
		return errors.NewValidationError(MsgInvalidNewNode)
	}
	return nil
}

// UpdateNodeCommand merges Patch into the node with the same id.
type UpdateNodeCommand struct {
	Patch chart.Node
}

// Validate requires the patch to carry an id.
func (c UpdateNodeCommand) Validate() error {
	if c.Patch.IsZero() || c.Patch.ID() == "" {
		return errors.NewValidationError(MsgInvalidUpdate)
	}
	return nil
}

// RemoveNodeCommand removes every node whose id matches NodeID.
type RemoveNodeCommand struct {
	NodeID string
}

// Validate requires a non-empty id.
func (c RemoveNodeCommand) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return errors.NewValidationError(MsgMissingRemovalID)
	}
	return nil
}
