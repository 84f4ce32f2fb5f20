package handlers

import (
	"net/http"

	"orgchart-backend/application/services"
	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"
	"orgchart-backend/pkg/utils"

	"go.uber.org/zap"
)

// MutationForm is the form posted for every chart mutation
type MutationForm struct {
	Operation string `validate:"max=32"`
	Payload   string `validate:"max=262144"`
	NodeID    string `validate:"max=256"`
}

// MutationResponse is returned for every mutation that passed authentication.
// Logical failures use HTTP 200 with success false.
type MutationResponse struct {
	Success           bool              `json:"success"`
	Message           string            `json:"message"`
	UpdatedCollection *chart.Collection `json:"updatedCollection,omitempty"`
}

// MutationHandler applies chart mutations
type MutationHandler struct {
	processor  *services.MutationProcessor
	errHandler *errors.ErrorHandler
	logger     *zap.Logger
}

// NewMutationHandler creates a new mutation handler
func NewMutationHandler(processor *services.MutationProcessor, errHandler *errors.ErrorHandler, logger *zap.Logger) *MutationHandler {
	return &MutationHandler{
		processor:  processor,
		errHandler: errHandler,
		logger:     logger,
	}
}

// Apply handles POST /api/v2/chart/mutations
func (h *MutationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	form := MutationForm{
		Operation: r.FormValue("operation"),
		Payload:   r.FormValue("payload"),
		NodeID:    r.FormValue("nodeId"),
	}
	if err := utils.ValidateStruct(form); err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	outcome := h.processor.Apply(r.Context(), services.Mutation{
		Operation: form.Operation,
		Payload:   []byte(form.Payload),
		NodeID:    form.NodeID,
	})

	respondJSON(w, h.logger, http.StatusOK, ToMutationResponse(outcome))
}

// ToMutationResponse converts a processor outcome into its wire shape
func ToMutationResponse(outcome services.Outcome) MutationResponse {
	resp := MutationResponse{
		Success: outcome.Success,
		Message: outcome.Message,
	}
	if outcome.Success {
		c := outcome.UpdatedCollection
		if c == nil {
			c = chart.Collection{}
		}
		resp.UpdatedCollection = &c
	}
	return resp
}
