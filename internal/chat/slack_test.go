package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() Document {
	return Document{Rows: []Row{
		{BlockID: "b1", Text: "Thu 10/06 - EMPTY", Control: Button("Sign Up", "q_line_up::2022-10-06::gem")},
		{Text: "gem::2022-09-29::2022-10-19"},
	}}
}

func newTestSlackClient(handler http.HandlerFunc) (*SlackClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewSlackClient("xoxb-test")
	client.base = srv.URL
	return client, srv
}

func TestSlackClientPostDocument(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1664000000.000100"}`)
	})
	defer srv.Close()

	ref, err := client.PostDocument(context.Background(), "C1", testDoc())
	require.NoError(t, err)

	assert.Equal(t, "/chat.postMessage", gotPath)
	assert.Equal(t, "Bearer xoxb-test", gotAuth)
	assert.Equal(t, "C1", ref.Channel)
	assert.Equal(t, "1664000000.000100", ref.Timestamp)

	blocks, ok := gotBody["blocks"].([]interface{})
	require.True(t, ok)
	require.Len(t, blocks, 2)

	first := blocks[0].(map[string]interface{})
	assert.Equal(t, "section", first["type"])
	assert.Equal(t, "b1", first["block_id"])
	accessory := first["accessory"].(map[string]interface{})
	assert.Equal(t, "button", accessory["type"])
	assert.Equal(t, "q_line_up::2022-10-06::gem", accessory["action_id"])

	// The footer row has no block id and no accessory.
	second := blocks[1].(map[string]interface{})
	_, hasBlockID := second["block_id"]
	assert.False(t, hasBlockID)
	_, hasAccessory := second["accessory"]
	assert.False(t, hasAccessory)
}

func TestSlackClientUpdateDocument(t *testing.T) {
	var gotBody map[string]interface{}

	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"ok":true}`)
	})
	defer srv.Close()

	ref := MessageRef{Channel: "C1", Timestamp: "1664000000.000100"}
	err := client.UpdateDocument(context.Background(), ref, testDoc())
	require.NoError(t, err)

	assert.Equal(t, "C1", gotBody["channel"])
	assert.Equal(t, "1664000000.000100", gotBody["ts"])
}

func TestSlackClientOverflowBlocks(t *testing.T) {
	var gotBody map[string]interface{}

	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1"}`)
	})
	defer srv.Close()

	doc := Document{Rows: []Row{{
		BlockID: "b1",
		Text:    "Thu 10/06 - stinger",
		Control: Overflow("q_line_up::2022-10-06::gem",
			Option{Label: "Clear", Value: "Clear"},
			Option{Label: "Close", Value: "Close"}),
	}}}

	_, err := client.PostDocument(context.Background(), "C1", doc)
	require.NoError(t, err)

	blocks := gotBody["blocks"].([]interface{})
	accessory := blocks[0].(map[string]interface{})["accessory"].(map[string]interface{})
	assert.Equal(t, "overflow", accessory["type"])

	options := accessory["options"].([]interface{})
	require.Len(t, options, 2)
	assert.Equal(t, "Clear", options[0].(map[string]interface{})["value"])
	assert.Equal(t, "Close", options[1].(map[string]interface{})["value"])
}

func TestSlackClientAPIError(t *testing.T) {
	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	})
	defer srv.Close()

	_, err := client.PostDocument(context.Background(), "C1", testDoc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestSlackClientResolveUserName(t *testing.T) {
	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users.info", r.URL.Path)
		assert.Equal(t, "U200", r.URL.Query().Get("user"))
		io.WriteString(w, `{"ok":true,"user":{"name":"sam","real_name":"Sam Ng","profile":{"display_name":"stinger"}}}`)
	})
	defer srv.Close()

	name, err := client.ResolveUserName(context.Background(), "U200")
	require.NoError(t, err)
	assert.Equal(t, "stinger", name)
}

func TestSlackClientResolveUserNameFallsBack(t *testing.T) {
	client, srv := newTestSlackClient(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"user":{"name":"sam","real_name":"Sam Ng","profile":{"display_name":""}}}`)
	})
	defer srv.Close()

	name, err := client.ResolveUserName(context.Background(), "U200")
	require.NoError(t, err)
	assert.Equal(t, "Sam Ng", name)
}
