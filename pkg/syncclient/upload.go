package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

type uploadResponse struct {
	Success      bool   `json:"success"`
	ReferenceURL string `json:"referenceUrl"`
	AssetID      string `json:"assetId"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// UploadAvatar sends an image for a node. On success the node's avatar in
// the local view points at the returned reference; on failure the user is
// alerted and the avatar is left as it was.
func (c *Client) UploadAvatar(ctx context.Context, nodeID, fileName string, data []byte) (string, error) {
	ref, err := c.upload(ctx, fileName, data)
	if err != nil {
		if errors.IsTransport(err) {
			c.logger.Error("Network error during file upload", zap.String("nodeId", nodeID), zap.Error(err))
			c.alerter.Alert(MsgUploadNetworkError)
		} else {
			c.logger.Error("Error uploading file", zap.String("nodeId", nodeID), zap.Error(err))
			c.alerter.Alert("Error: " + errors.MessageOf(err))
		}
		return "", err
	}

	c.mu.Lock()
	if i := c.view.IndexOf(nodeID); i >= 0 {
		if n, err := c.view[i].With(chart.FieldImageURL, ref); err == nil {
			c.view = c.view.Replace(i, n)
		}
	}
	c.mu.Unlock()

	c.logger.Info("Avatar uploaded", zap.String("nodeId", nodeID), zap.String("url", ref))
	return ref, nil
}

func (c *Client) upload(ctx context.Context, fileName string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField(FieldAuthToken, c.token); err != nil {
		return "", errors.NewTransportError("failed to encode form", err)
	}
	part, err := mw.CreateFormFile(FieldFile, fileName)
	if err != nil {
		return "", errors.NewTransportError("failed to encode form", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.NewTransportError("failed to encode form", err)
	}
	if err := mw.Close(); err != nil {
		return "", errors.NewTransportError("failed to encode form", err)
	}

	respBody, err := c.do(ctx, c.uploadURL, mw.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", errors.NewTransportError("failed to decode upload response", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		return "", errors.NewUploadError(msg, nil)
	}
	if resp.ReferenceURL == "" {
		return "", errors.NewTransportError("upload response has no reference url", nil)
	}
	return resp.ReferenceURL, nil
}
