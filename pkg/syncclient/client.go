package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"go.uber.org/zap"
)

// Mutation form fields and operations
const (
	FieldOperation = "operation"
	FieldAuthToken = "authToken"
	FieldPayload   = "payload"
	FieldNodeID    = "nodeId"
	FieldFile      = "file"

	OperationAdd    = "add"
	OperationUpdate = "update"
	OperationRemove = "remove"
)

// User-facing alerts
const (
	MsgMutationNetworkError = "A network error occurred while trying to update OrgChart data."
	MsgUploadNetworkError   = "A network error occurred while trying to upload the image."
	MsgPlaceholderDiscarded = "Placeholder removed."
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 32 << 20

// Alerter shows a blocking notification to the user
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// ReconcileFunc is called with the server's collection after a mutation was
// applied. The default does nothing; the local view stays as the user left it.
type ReconcileFunc func(ctx context.Context, operation string, updated chart.Collection)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAlerter sets where failures are surfaced to the user
func WithAlerter(a Alerter) Option {
	return func(c *Client) { c.alerter = a }
}

// WithReconcile installs a hook run after each applied mutation
func WithReconcile(fn ReconcileFunc) Option {
	return func(c *Client) { c.reconcile = fn }
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

type mutationResponse struct {
	Success           bool             `json:"success"`
	Message           string           `json:"message"`
	UpdatedCollection chart.Collection `json:"updatedCollection"`
}

// Client keeps the local view of a chart and mirrors widget edits to the
// server. Edits are applied locally first and never rolled back. Requests
// are not serialized; overlapping edits race on the server.
type Client struct {
	mutationURL string
	uploadURL   string
	token       string

	http      *http.Client
	alerter   Alerter
	reconcile ReconcileFunc
	logger    *zap.Logger

	mu   sync.RWMutex
	view chart.Collection
	// unsaved is the id of the placeholder shown for an empty chart until
	// its first edit stores it.
	unsaved string
}

// New creates a client hydrated from b
func New(b Bootstrap, opts ...Option) *Client {
	c := &Client{
		mutationURL: b.MutationURL,
		uploadURL:   b.UploadURL,
		token:       b.AuthToken,
		http:        http.DefaultClient,
		alerter:     AlertFunc(func(string) {}),
		reconcile:   func(context.Context, string, chart.Collection) {},
		logger:      zap.NewNop(),
		view:        Hydrate(b.InitialData),
	}
	if len(b.InitialData) == 0 {
		c.unsaved = c.view[0].ID()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns a copy of the local chart
func (c *Client) View() chart.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view.Clone()
}

// OnAdd mirrors a node added in the widget
func (c *Client) OnAdd(ctx context.Context, node chart.Node) *Pending {
	c.mu.Lock()
	c.view = c.view.Append(node)
	c.mu.Unlock()

	c.logger.Info("Node added, sending to server", zap.String("nodeId", node.ID()))
	return c.send(ctx, OperationAdd, node, "")
}

// OnUpdate mirrors an edited node. node carries the widget's full new data.
// The first edit of the empty-chart placeholder is sent as an add, since the
// server has nothing to update yet.
func (c *Client) OnUpdate(ctx context.Context, node chart.Node) *Pending {
	c.mu.Lock()
	if i := c.view.IndexOf(node.ID()); i >= 0 {
		c.view = c.view.Replace(i, node)
	}
	placeholder := c.unsaved != "" && chart.SameID(c.unsaved, node.ID())
	if placeholder {
		c.unsaved = ""
	}
	c.mu.Unlock()

	if !placeholder {
		c.logger.Info("Node updated, sending to server", zap.String("nodeId", node.ID()))
		return c.send(ctx, OperationUpdate, node, "")
	}

	c.logger.Info("Placeholder edited, storing it", zap.String("nodeId", node.ID()))
	p := c.send(ctx, OperationAdd, node, "")
	go func() {
		<-p.Done()
		if p.State() == StateFailed {
			c.mu.Lock()
			if c.unsaved == "" {
				c.unsaved = node.ID()
			}
			c.mu.Unlock()
		}
	}()
	return p
}

// OnRemove mirrors a node removed in the widget. Children are left in place.
// Removing the never-stored placeholder only changes the local view.
func (c *Client) OnRemove(ctx context.Context, nodeID string) *Pending {
	c.mu.Lock()
	c.view = c.view.Without(nodeID)
	placeholder := c.unsaved != "" && chart.SameID(c.unsaved, nodeID)
	if placeholder {
		c.unsaved = ""
	}
	c.mu.Unlock()

	if placeholder {
		c.logger.Info("Placeholder discarded", zap.String("nodeId", nodeID))
		return settled(Result{Success: true, Message: MsgPlaceholderDiscarded})
	}

	c.logger.Info("Node removed, sending to server", zap.String("nodeId", nodeID))
	return c.send(ctx, OperationRemove, nil, nodeID)
}

func (c *Client) send(ctx context.Context, operation string, node any, nodeID string) *Pending {
	p := newPending()
	p.sending()

	go func() {
		result := c.post(ctx, operation, node, nodeID)
		if result.Success {
			c.logger.Info("OrgChart data updated successfully",
				zap.String("operation", operation),
				zap.String("message", result.Message),
			)
			c.reconcile(ctx, operation, result.UpdatedCollection)
		} else if errors.IsTransport(result.Err) {
			c.logger.Error("Network error during OrgChart data update",
				zap.String("operation", operation),
				zap.Error(result.Err),
			)
			c.alerter.Alert(MsgMutationNetworkError)
		} else {
			c.logger.Error("Error updating OrgChart data",
				zap.String("operation", operation),
				zap.String("message", result.Message),
			)
			c.alerter.Alert(fmt.Sprintf("Error: %s Please check console for details.", result.Message))
		}
		p.settle(result)
	}()

	return p
}

func (c *Client) post(ctx context.Context, operation string, node any, nodeID string) Result {
	payload := []byte("{}")
	if node != nil {
		b, err := json.Marshal(node)
		if err != nil {
			return transportFailure("failed to encode node", err)
		}
		payload = b
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{FieldOperation, operation},
		{FieldAuthToken, c.token},
		{FieldPayload, string(payload)},
	}
	if nodeID != "" {
		fields = append(fields, [2]string{FieldNodeID, nodeID})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return transportFailure("failed to encode form", err)
		}
	}
	if err := mw.Close(); err != nil {
		return transportFailure("failed to encode form", err)
	}

	respBody, err := c.do(ctx, c.mutationURL, mw.FormDataContentType(), &body)
	if err != nil {
		return Result{Err: err}
	}

	var resp mutationResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return transportFailure("failed to decode mutation response", err)
	}
	if !resp.Success {
		return Result{Message: resp.Message, Err: fmt.Errorf("mutation rejected: %s", resp.Message)}
	}
	return Result{Success: true, Message: resp.Message, UpdatedCollection: resp.UpdatedCollection}
}

// do posts a form and returns the body. Non-2xx replies still carry a JSON
// body with success false, so they are returned rather than treated as
// transport failures.
func (c *Client) do(ctx context.Context, target, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, errors.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewTransportError("request failed", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewTransportError("failed to read response", err)
	}
	return b, nil
}

func transportFailure(msg string, err error) Result {
	return Result{Err: errors.NewTransportError(msg, err)}
}
