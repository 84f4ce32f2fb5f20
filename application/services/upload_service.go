package services

import (
	"context"
	"time"

	"orgchart-backend/application/ports"
	"orgchart-backend/domain/assets"
	"orgchart-backend/domain/events"
	"orgchart-backend/pkg/errors"
	"orgchart-backend/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Receipt identifies a stored upload
type Receipt struct {
	ReferenceURL string
	AssetID      string
}

// UploadService forwards avatar files to the media sink and records the
// resulting reference. It does no validation of its own; the sink decides
// which files it accepts.
type UploadService struct {
	sink      ports.MediaSink
	registry  ports.AssetRegistry
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	newID     func() string
	now       func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(
	sink ports.MediaSink,
	registry ports.AssetRegistry,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		sink:      sink,
		registry:  registry,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Store hands the file to the sink. Every error is an UPLOAD error carrying
// the sink's message.
func (s *UploadService) Store(ctx context.Context, data []byte, fileName string) (Receipt, error) {
	assetID := s.newID()

	obj, err := s.sink.Put(ctx, assetID, fileName, data)
	if err != nil {
		s.metrics.RecordUpload(ctx, len(data), err)
		s.logger.Info("Upload rejected",
			zap.String("fileName", fileName),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		if errors.IsUpload(err) {
			return Receipt{}, err
		}
		return Receipt{}, errors.NewUploadError(errors.MessageOf(err), err)
	}

	asset := assets.Asset{
		ID:          assetID,
		FileName:    fileName,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		URL:         obj.URL,
		CreatedAt:   s.now().UTC(),
	}
	if s.registry != nil {
		if err := s.registry.Register(ctx, asset); err != nil {
			s.metrics.RecordUpload(ctx, len(data), err)
			return Receipt{}, errors.NewUploadError("failed to register uploaded file", err)
		}
	}

	s.metrics.RecordUpload(ctx, len(data), nil)
	s.logger.Info("Upload stored",
		zap.String("assetID", assetID),
		zap.String("url", obj.URL),
		zap.String("contentType", obj.ContentType),
	)

	if s.publisher != nil {
		event := events.NewAssetUploaded(assetID, obj.URL, fileName, obj.ContentType, asset.CreatedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish upload event", zap.String("assetID", assetID), zap.Error(err))
		}
	}

	return Receipt{ReferenceURL: obj.URL, AssetID: assetID}, nil
}
