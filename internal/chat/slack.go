package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const slackAPIBase = "https://slack.com/api"

// SlackClient is a minimal Slack Web API client covering the three calls
// this bot consumes: chat.postMessage, chat.update and users.info.
type SlackClient struct {
	hc    *http.Client
	token string
	base  string
}

func NewSlackClient(token string) *SlackClient {
	return &SlackClient{
		hc:    &http.Client{Timeout: 5 * time.Second},
		token: token,
		base:  slackAPIBase,
	}
}

// PostDocument sends a new document to a channel.
func (c *SlackClient) PostDocument(ctx context.Context, channel string, doc Document) (MessageRef, error) {
	payload := map[string]interface{}{
		"channel": channel,
		"blocks":  documentBlocks(doc),
		"text":    fallbackText(doc),
	}

	var resp struct {
		apiResponse
		Channel string `json:"channel"`
		TS      string `json:"ts"`
	}
	if err := c.call(ctx, "chat.postMessage", payload, &resp); err != nil {
		return MessageRef{}, fmt.Errorf("post document: %w", err)
	}

	return MessageRef{Channel: resp.Channel, Timestamp: resp.TS}, nil
}

// UpdateDocument replaces the content of an already-posted message.
func (c *SlackClient) UpdateDocument(ctx context.Context, ref MessageRef, doc Document) error {
	payload := map[string]interface{}{
		"channel": ref.Channel,
		"ts":      ref.Timestamp,
		"blocks":  documentBlocks(doc),
		"text":    fallbackText(doc),
	}

	var resp apiResponse
	if err := c.call(ctx, "chat.update", payload, &resp); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// ResolveUserName resolves a user id to a display name, preferring the
// profile display name over the account real name.
func (c *SlackClient) ResolveUserName(ctx context.Context, userID string) (string, error) {
	endpoint := fmt.Sprintf("%s/users.info?user=%s", c.base, url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp struct {
		apiResponse
		User struct {
			Name     string `json:"name"`
			RealName string `json:"real_name"`
			Profile  struct {
				DisplayName string `json:"display_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.send(req, &resp); err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}

	switch {
	case resp.User.Profile.DisplayName != "":
		return resp.User.Profile.DisplayName, nil
	case resp.User.RealName != "":
		return resp.User.RealName, nil
	default:
		return resp.User.Name, nil
	}
}

// --- internals ---

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r apiResponse) err() error {
	if r.OK {
		return nil
	}
	if r.Error != "" {
		return fmt.Errorf("slack api error: %s", r.Error)
	}
	return fmt.Errorf("slack api error")
}

func (c *SlackClient) call(ctx context.Context, method string, payload interface{}, out interface{ err() error }) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	return c.send(req, out)
}

func (c *SlackClient) send(req *http.Request, out interface{ err() error }) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack api status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return out.err()
}

// documentBlocks converts rows into Slack Block Kit section blocks.
func documentBlocks(doc Document) []map[string]interface{} {
	blocks := make([]map[string]interface{}, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		block := map[string]interface{}{
			"type": "section",
			"text": map[string]interface{}{
				"type": "mrkdwn",
				"text": row.Text,
			},
		}
		if row.BlockID != "" {
			block["block_id"] = row.BlockID
		}
		if row.Control != nil {
			block["accessory"] = controlBlock(row.Control)
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func controlBlock(control *Control) map[string]interface{} {
	switch control.Type {
	case ControlOverflow:
		options := make([]map[string]interface{}, 0, len(control.Options))
		for _, opt := range control.Options {
			options = append(options, map[string]interface{}{
				"text": map[string]interface{}{
					"type": "plain_text",
					"text": opt.Label,
				},
				"value": opt.Value,
			})
		}
		return map[string]interface{}{
			"type":      "overflow",
			"action_id": control.ActionID,
			"options":   options,
		}
	default:
		return map[string]interface{}{
			"type": "button",
			"text": map[string]interface{}{
				"type": "plain_text",
				"text": control.Label,
			},
			"action_id": control.ActionID,
		}
	}
}

// fallbackText is the plain-text summary shown in notifications.
func fallbackText(doc Document) string {
	if len(doc.Rows) == 0 {
		return ""
	}
	return doc.Rows[0].Text
}
