package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meneportal/ltm-bridge/agents"
	"github.com/meneportal/ltm-bridge/bridge"
	"github.com/meneportal/ltm-bridge/embedder/mock"
	"github.com/meneportal/ltm-bridge/memory"
	"github.com/meneportal/ltm-bridge/server"
	"github.com/meneportal/ltm-bridge/store/chromem"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := chromem.New(chromem.Config{Embedder: mock.New()})
	require.NoError(t, err)
	b := bridge.New(s, memory.NewManager(s), agents.DefaultRoster())

	ts := httptest.NewServer(server.New(b).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddDocumentAndSearch(t *testing.T) {
	ts := newTestServer(t)

	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte(strings.Repeat("observations about volcanic soil fertility ", 20)), 0o644))

	resp, body := postJSON(t, ts.URL+"/documents/add", map[string]any{"file_path": path})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Greater(t, body["chunks_added"].(float64), 0.0)

	resp, body = postJSON(t, ts.URL+"/rag/search", map[string]any{"query": "volcanic soil", "limit": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["results"])
}

func TestSearch_UnknownCollection(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/rag/search", map[string]any{"query": "x", "collection": "bogus"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
}

func TestAgentQueryAndMemoryContext(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/agent/query", map[string]any{"agent": "mene", "query": "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mene", body["agent"])
	assert.Contains(t, body["response"].(string), "hello")
	assert.Equal(t, 0.0, body["rag_sources"])

	resp2, err := http.Get(ts.URL + "/memory/context?query=hello&agent=mene")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var ctx map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&ctx))
	assert.Equal(t, "ok", ctx["status"])
	assert.Equal(t, 1.0, ctx["total_results"])
}

func TestSaveConversation(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postJSON(t, ts.URL+"/memory/save", map[string]any{
		"agent":          "bonny",
		"user_message":   "classify this fern",
		"agent_response": "it is a polypody",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body["conversation_id"].(string), "conv_")
}

func TestAgents(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/agents")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string][]agents.Profile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["agents"], 2)
	assert.Equal(t, "bonny", body["agents"][0].Name)
}
