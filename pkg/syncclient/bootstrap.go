package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/errors"

	"golang.org/x/net/html"
)

// BootstrapElementID is the id of the script element the page embeds the
// bootstrap blob in
const BootstrapElementID = "orgchart-bootstrap"

// Bootstrap is everything the client needs to start editing: where to send
// mutations and uploads, the editor token and the chart as rendered.
type Bootstrap struct {
	MutationURL string           `json:"mutationUrl"`
	UploadURL   string           `json:"uploadUrl"`
	AuthToken   string           `json:"authToken"`
	InitialData chart.Collection `json:"initialData"`
}

// ExtractBootstrap finds the bootstrap script element in an HTML page and
// decodes its JSON body.
func ExtractBootstrap(page []byte) (Bootstrap, error) {
	z := html.NewTokenizer(bytes.NewReader(page))
	inBlob := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return Bootstrap{}, fmt.Errorf("bootstrap element %q not found", BootstrapElementID)
			}
			return Bootstrap{}, fmt.Errorf("failed to parse page: %w", z.Err())

		case html.StartTagToken:
			tok := z.Token()
			inBlob = tok.Data == "script" && attr(tok, "id") == BootstrapElementID

		case html.TextToken:
			if !inBlob {
				continue
			}
			var b Bootstrap
			if err := json.Unmarshal(z.Text(), &b); err != nil {
				return Bootstrap{}, fmt.Errorf("failed to decode bootstrap: %w", err)
			}
			return b, nil

		case html.EndTagToken:
			if inBlob {
				return Bootstrap{}, fmt.Errorf("bootstrap element %q is empty", BootstrapElementID)
			}
		}
	}
}

// FetchBootstrap loads the chart page and extracts its bootstrap. Relative
// endpoint URLs are resolved against the page URL.
func FetchBootstrap(ctx context.Context, client *http.Client, pageURL string) (Bootstrap, error) {
	if client == nil {
		client = http.DefaultClient
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return Bootstrap{}, errors.NewTransportError("invalid page url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Bootstrap{}, errors.NewTransportError("failed to build page request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Bootstrap{}, errors.NewTransportError("failed to load chart page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Bootstrap{}, errors.NewTransportError(fmt.Sprintf("chart page returned %s", resp.Status), nil)
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return Bootstrap{}, errors.NewTransportError("failed to read chart page", err)
	}

	b, err := ExtractBootstrap(page)
	if err != nil {
		return Bootstrap{}, errors.NewTransportError("chart page has no usable bootstrap", err)
	}

	if b.MutationURL, err = resolve(base, b.MutationURL); err != nil {
		return Bootstrap{}, errors.NewTransportError("invalid mutation url", err)
	}
	if b.UploadURL, err = resolve(base, b.UploadURL); err != nil {
		return Bootstrap{}, errors.NewTransportError("invalid upload url", err)
	}
	return b, nil
}

// Hydrate returns what the widget should display for a stored collection. An
// empty chart shows a single placeholder node that is not persisted until
// it is edited.
func Hydrate(c chart.Collection) chart.Collection {
	if len(c) == 0 {
		return chart.Collection{chart.Placeholder()}
	}
	return c.Clone()
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
