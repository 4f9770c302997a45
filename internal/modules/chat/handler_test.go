package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()

	e := echo.New()
	NewHandler(f.service).RegisterRoutes(e.Group("/api"))

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandler_CreateAndGetMessage(t *testing.T) {
	f := newFixture(t, "alice")
	server := newTestServer(t, f)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/messages",
		`{"room":"general","sender":"alice","body":"hello"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	require.NotEmpty(t, id)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/messages/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body["body"])
}

func TestHandler_CreateMessage_Validation(t *testing.T) {
	f := newFixture(t, "alice")
	server := newTestServer(t, f)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/messages",
		`{"room":"general","sender":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_Reactions(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	server := newTestServer(t, f)

	url := server.URL + "/api/messages/" + msg.ID + "/reactions"

	resp, body := doJSON(t, http.MethodPost, url, `{"user":"bob","emoji":"👍"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, false, body["alreadyExists"])

	// The duplicate add is acknowledged with 200, not 201.
	resp, body = doJSON(t, http.MethodPost, url, `{"user":"bob","emoji":"👍"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["alreadyExists"])

	resp, body = doJSON(t, http.MethodGet, url, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["reactions"], 1)

	resp, body = doJSON(t, http.MethodDelete, url, `{"user":"bob","emoji":"👍"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["reactions"])
}

func TestHandler_ReactionErrorMapping(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	server := newTestServer(t, f)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/reactions",
		`{"user":"ghost","emoji":"👍"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/messages/missing/reactions",
		`{"user":"alice","emoji":"👍"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/reactions",
		`{"user":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_MarkSeen(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	server := newTestServer(t, f)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/seen",
		`{"user":"bob"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["seenBy"], 1)
}

func TestHandler_DeleteAndRestore(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	server := newTestServer(t, f)

	// A non-owner is rejected.
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/delete",
		`{"user":"bob"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/delete",
		`{"user":"alice"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "This message was deleted", body["body"])

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/restore", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body["body"])

	// Restoring an active message is a conflict.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/restore", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHandler_RestoreWindowExpired(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	server := newTestServer(t, f)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/delete",
		`{"user":"alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	f.clock.Advance(16 * time.Minute)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/messages/"+msg.ID+"/restore", "")
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestHandler_GetMissingMessage(t *testing.T) {
	f := newFixture(t, "alice")
	server := newTestServer(t, f)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/messages/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
