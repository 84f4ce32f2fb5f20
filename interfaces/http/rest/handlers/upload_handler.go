package handlers

import (
	"io"
	"net/http"

	"orgchart-backend/application/services"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// MsgNoFile is returned when the upload form carries no file part
const MsgNoFile = "No file uploaded."

// UploadResponse is returned for every upload that passed authentication
type UploadResponse struct {
	Success      bool   `json:"success"`
	ReferenceURL string `json:"referenceUrl,omitempty"`
	AssetID      string `json:"assetId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// UploadHandler forwards avatar uploads to the upload service
type UploadHandler struct {
	uploads *services.UploadService
	logger  *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *services.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// Upload handles POST /api/v2/assets
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Receive(r, "file")
	if err != nil {
		respondJSON(w, h.logger, http.StatusOK, UploadResponse{Success: false, Error: errors.MessageOf(err)})
		return
	}

	respondJSON(w, h.logger, http.StatusOK, UploadResponse{
		Success:      true,
		ReferenceURL: receipt.ReferenceURL,
		AssetID:      receipt.AssetID,
	})
}

// Receive reads the named multipart file and stores it. It is shared with
// the legacy surface, which answers with its own response shape.
func (h *UploadHandler) Receive(r *http.Request, field string) (services.Receipt, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return services.Receipt{}, errors.NewUploadError(MsgNoFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Receipt{}, errors.NewUploadError("failed to read uploaded file", err)
	}

	return h.uploads.Store(r.Context(), data, header.Filename)
}
