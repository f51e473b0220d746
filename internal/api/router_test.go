package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"magnetic-field-service/internal/adapters/cache"
	"magnetic-field-service/internal/adapters/repositories"
	"magnetic-field-service/internal/api/dto"
	"magnetic-field-service/internal/platform/db"
	"magnetic-field-service/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(conn))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := NewRouter(
		services.Evaluator{Workers: 2},
		cache.NewRedisFieldCache(client, 0),
		repositories.NewSqliteRunRepository(conn),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, dto.HealthResponse{Status: "ok", RunStore: true, Cache: true, Workers: 2}, health)

	resp2 := postJSON(t, srv.URL+"/health", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestHealthWithoutStores(t *testing.T) {
	srv := httptest.NewServer(NewRouter(services.Evaluator{Workers: 3}, nil, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.RunStore)
	assert.False(t, health.Cache)
	assert.Equal(t, 3, health.Workers)
}

func TestEvaluateSaveAndFetch(t *testing.T) {
	srv := newTestServer(t)

	body := `{"wire":[[-0.5,0,0],[0.5,0,0]],"targets":[[0,1,0],[0,0,0]],"current":2,"save":true}`
	resp := postJSON(t, srv.URL+"/evaluations", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res dto.EvaluationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, int64(1), res.RunID)
	assert.Equal(t, 1, res.Segments)
	assert.Equal(t, 2, res.Targets)
	assert.False(t, res.Cached)
	require.Len(t, res.Vectors, 2)
	assert.Equal(t, dto.Float(2e-7), res.Vectors[0][2])
	assert.True(t, math.IsNaN(float64(res.Vectors[1][0])))

	// same input again is served from the cache
	resp = postJSON(t, srv.URL+"/evaluations", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again dto.EvaluationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&again))
	assert.True(t, again.Cached)
	assert.Equal(t, int64(2), again.RunID)

	getResp, err := http.Get(srv.URL + "/evaluations/1")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var run dto.RunResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&run))
	assert.Equal(t, int64(1), run.RunID)
	assert.Equal(t, 2.0, run.Current)
	assert.Equal(t, dto.Vector{0, 1, 0}, run.Locations[0])

	listResp, err := http.Get(srv.URL + "/evaluations?limit=10")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var list dto.ListRunsResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Runs, 2)
	assert.Equal(t, int64(2), list.Runs[0].RunID)

	missing, err := http.Get(srv.URL + "/evaluations/99")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]struct {
		body   string
		status int
	}{
		"invalid json":    {`{"wire":`, http.StatusBadRequest},
		"unknown field":   {`{"wires":[]}`, http.StatusBadRequest},
		"short wire":      {`{"wire":[[0,0,0]],"targets":[[0,1,0]]}`, http.StatusBadRequest},
		"no targets":      {`{"wire":[[0,0,0],[1,0,0]],"targets":[]}`, http.StatusBadRequest},
		"bad epsilon":     {`{"wire":[[0,0,0],[1,0,0]],"targets":[[0,1,0]],"epsilon":-1}`, http.StatusBadRequest},
		"strict singular": {`{"wire":[[-0.5,0,0],[0.5,0,0]],"targets":[[0,0,0]],"strict":true}`, http.StatusUnprocessableEntity},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/evaluations", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}

	bad, err := http.Get(srv.URL + "/evaluations/abc")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	badLimit, err := http.Get(srv.URL + "/evaluations?limit=0")
	require.NoError(t, err)
	defer badLimit.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badLimit.StatusCode)
}

func TestEvaluateWithoutStore(t *testing.T) {
	srv := httptest.NewServer(NewRouter(services.Evaluator{}, nil, nil))
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/evaluations", `{"wire":[[0,0,0],[1,0,0]],"targets":[[0.5,1,0]]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/evaluations", `{"wire":[[0,0,0],[1,0,0]],"targets":[[0.5,1,0]],"save":true}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	list, err := http.Get(srv.URL + "/evaluations")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, list.StatusCode)
}
