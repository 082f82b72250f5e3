package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpAdapter "github.com/aretw0/megaverse/pkg/adapters/http"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goal = domain.Grid{
	{"SPACE", "POLYANET"},
	{"UP_COMETH", "BLUE_SOLOON"},
}

func newServer(t *testing.T, opts ...httpAdapter.Option) (*httpAdapter.Server, *httptest.Server) {
	t.Helper()
	s, err := httpAdapter.NewServer(goal, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, route, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/"+route, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewServer_RejectsInvalidGoal(t *testing.T) {
	_, err := httpAdapter.NewServer(domain.Grid{{"SPACE"}, {}})
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestServer_Goal(t *testing.T) {
	_, ts := newServer(t)

	resp, err := http.Get(ts.URL + "/api/map/cand/goal")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Goal domain.Grid `json:"goal"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, goal, body.Goal)
}

func TestServer_CreateAndMap(t *testing.T) {
	s, ts := newServer(t)

	assert.Equal(t, http.StatusOK, post(t, ts, "polyanets", `{"candidateId":"cand","row":0,"column":1}`).StatusCode)
	assert.Equal(t, http.StatusOK, post(t, ts, "comeths", `{"candidateId":"cand","row":1,"column":0,"direction":"up"}`).StatusCode)
	assert.Equal(t, http.StatusOK, post(t, ts, "soloons", `{"candidateId":"cand","row":1,"column":1,"color":"blue"}`).StatusCode)

	assert.Equal(t, goal, s.Map("cand"))
	assert.Equal(t, domain.NewGrid(2, 2), s.Map("other"))

	resp, err := http.Get(ts.URL + "/api/map/cand")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body struct {
		Map domain.Grid `json:"map"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, goal, body.Map)
}

func TestServer_CreateIsIdempotent(t *testing.T) {
	s, ts := newServer(t)
	for i := 0; i < 3; i++ {
		post(t, ts, "polyanets", `{"candidateId":"cand","row":0,"column":1}`)
	}
	assert.Equal(t, "POLYANET", s.Map("cand")[0][1])
	assert.Equal(t, 3, s.Creates())
}

func TestServer_RejectsInvalidRequests(t *testing.T) {
	_, ts := newServer(t)

	tests := []struct {
		name  string
		route string
		body  string
	}{
		{"Unknown Route", "blackholes", `{"candidateId":"cand","row":0,"column":0}`},
		{"Missing Candidate", "polyanets", `{"row":0,"column":0}`},
		{"Negative Row", "polyanets", `{"candidateId":"cand","row":-1,"column":0}`},
		{"Out Of Bounds", "polyanets", `{"candidateId":"cand","row":5,"column":0}`},
		{"Bad Direction", "comeths", `{"candidateId":"cand","row":0,"column":0,"direction":"sideways"}`},
		{"Missing Direction", "comeths", `{"candidateId":"cand","row":0,"column":0}`},
		{"Missing Color", "soloons", `{"candidateId":"cand","row":0,"column":0}`},
		{"Unknown Field", "polyanets", `{"candidateId":"cand","row":0,"column":0,"size":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.route, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, true, body["error"])
			assert.NotEmpty(t, body["reason"])
		})
	}
}

func TestServer_UnknownPath(t *testing.T) {
	_, ts := newServer(t)
	resp, err := http.Get(ts.URL + "/api/map/cand/goal/extra")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_FailEvery(t *testing.T) {
	s, ts := newServer(t, httpAdapter.WithFailEvery(2))

	body := `{"candidateId":"cand","row":0,"column":1}`
	assert.Equal(t, http.StatusOK, post(t, ts, "polyanets", body).StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, post(t, ts, "polyanets", body).StatusCode)
	assert.Equal(t, http.StatusOK, post(t, ts, "polyanets", body).StatusCode)
	assert.Equal(t, 3, s.Creates())
}

func TestServer_ServesSpec(t *testing.T) {
	_, ts := newServer(t)
	resp, err := http.Get(ts.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, httpAdapter.Spec())
}

func TestServer_ListenAndServeShutdown(t *testing.T) {
	s, err := httpAdapter.NewServer(goal)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
