package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"orgchart-backend/domain/chart"
	"orgchart-backend/pkg/syncclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChart serves a chart page and accepts every mutation except removes of
// unknown ids.
func fakeChart(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var ops []string

	mux := http.NewServeMux()
	mux.HandleFunc("/chart", func(w http.ResponseWriter, r *http.Request) {
		blob, _ := json.Marshal(syncclient.Bootstrap{
			MutationURL: "/mutations",
			UploadURL:   "/assets",
			AuthToken:   "tok",
			InitialData: chart.Seed(),
		})
		fmt.Fprintf(w, `<html><body><script id="%s" type="application/json">%s</script></body></html>`,
			syncclient.BootstrapElementID, blob)
	})
	mux.HandleFunc("/mutations", func(w http.ResponseWriter, r *http.Request) {
		op := r.FormValue(syncclient.FieldOperation)
		mu.Lock()
		ops = append(ops, op)
		mu.Unlock()
		if op == syncclient.OperationRemove && r.FormValue(syncclient.FieldNodeID) == "99" {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Node not found for removal."})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &ops
}

func TestReplay(t *testing.T) {
	srv, ops := fakeChart(t)
	opts := &globalOptions{pageURL: srv.URL + "/chart"}

	var alerts bytes.Buffer
	c, err := connect(context.Background(), opts, &alerts)
	require.NoError(t, err)

	input := strings.Join([]string{
		`# seed edits`,
		`{"operation":"add","payload":{"id":4,"pid":1,"EmployeeName":"New Hire"}}`,
		`{"operation":"update","payload":{"id":2,"Title":"COO"}}`,
		`{"operation":"remove","nodeId":"99"}`,
		`{"operation":"remove","nodeId":"3"}`,
	}, "\n")

	var out bytes.Buffer
	err = replay(context.Background(), c, strings.NewReader(input), &out, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 mutations failed")
	assert.Equal(t, []string{"add", "update", "remove", "remove"}, *ops)
	assert.Contains(t, out.String(), "3\tremove\tFAILED")
	assert.Contains(t, alerts.String(), "Node not found for removal.")
}

func TestReplay_StopsOnFirstFailure(t *testing.T) {
	srv, ops := fakeChart(t)
	c, err := connect(context.Background(), &globalOptions{pageURL: srv.URL + "/chart"}, &bytes.Buffer{})
	require.NoError(t, err)

	input := "{\"operation\":\"remove\",\"nodeId\":\"99\"}\n{\"operation\":\"remove\",\"nodeId\":\"3\"}\n"
	err = replay(context.Background(), c, strings.NewReader(input), &bytes.Buffer{}, false)

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, exitRejected, ee.code)
	assert.Len(t, *ops, 1)
}

func TestApply_UsageErrors(t *testing.T) {
	srv, ops := fakeChart(t)
	c, err := connect(context.Background(), &globalOptions{pageURL: srv.URL + "/chart"}, &bytes.Buffer{})
	require.NoError(t, err)

	for _, line := range []replayLine{
		{Operation: "rename"},
		{Operation: "remove"},
		{Operation: "add", Payload: json.RawMessage(`{"EmployeeName":"no id"}`)},
	} {
		_, err := apply(context.Background(), c, line)
		var ee *exitError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, exitUsage, ee.code)
	}
	assert.Empty(t, *ops)
}

func TestPrintTree(t *testing.T) {
	c := chart.Seed().Append(chart.MustNode("5", map[string]any{chart.FieldParentID: "42", chart.FieldEmployeeName: "Orphan"}))

	var out bytes.Buffer
	printTree(&out, c)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "1  Jack Hill"))
	assert.True(t, strings.HasPrefix(lines[1], "  2  "))
	assert.True(t, strings.HasPrefix(lines[2], "  3  "))
	assert.True(t, strings.HasPrefix(lines[3], "5  Orphan"))
}
