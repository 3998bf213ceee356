package uiautomator2

import "github.com/rs/zerolog"

// NewClientForURL creates a client against an arbitrary base URL.
// Intended for tests that point the client at an httptest server.
func NewClientForURL(baseURL string) *Client {
	return &Client{
		http:    newDefaultHTTPClient(),
		baseURL: baseURL,
		logger:  zerolog.Nop(),
	}
}

// NewTestElement creates an Element for testing purposes.
// This should only be used in tests.
func NewTestElement(id string, client *Client) *Element {
	return &Element{
		id:     id,
		client: client,
	}
}

// SetSession sets the session ID for testing purposes.
// This should only be used in tests.
func (c *Client) SetSession(sessionID string) {
	c.sessionID = sessionID
}
