package assets

import "time"

// Asset is the registered reference to an uploaded file held by a media sink.
type Asset struct {
	ID          string    `json:"id" dynamodbav:"AssetID"`
	FileName    string    `json:"fileName" dynamodbav:"FileName"`
	ContentType string    `json:"contentType" dynamodbav:"ContentType"`
	Size        int       `json:"size" dynamodbav:"Size"`
	URL         string    `json:"url" dynamodbav:"URL"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"CreatedAt"`
}
