// Package uiautomator2 provides an HTTP client for the UIAutomator2 server.
//
// The harness reaches the server through a per-device forwarded TCP port,
// so concurrent device sessions never share an endpoint.
package uiautomator2

// Response is the standard UIAutomator2 response format.
type Response struct {
	SessionID string      `json:"sessionId"`
	Value     interface{} `json:"value"`
}

// Capabilities for session creation.
type Capabilities struct {
	PlatformName string `json:"platformName,omitempty"`
	DeviceName   string `json:"deviceName,omitempty"`
}

// SessionRequest for creating a session.
type SessionRequest struct {
	Capabilities Capabilities `json:"capabilities"`
}

// FindElementRequest for finding elements.
type FindElementRequest struct {
	Strategy string `json:"strategy"`
	Selector string `json:"selector"`
	Context  string `json:"context,omitempty"`
}

// InputTextRequest for typing text.
type InputTextRequest struct {
	Text string `json:"text"`
}

// KeyCodeRequest for pressing keys.
type KeyCodeRequest struct {
	KeyCode  int `json:"keycode"`
	MetaKeys int `json:"metastate,omitempty"`
}

// ElementRect represents element bounds from the /element/{id}/rect API.
type ElementRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DeviceInfo from the device info endpoint.
type DeviceInfo struct {
	AndroidID       string `json:"androidId"`
	Manufacturer    string `json:"manufacturer"`
	Model           string `json:"model"`
	Brand           string `json:"brand"`
	APIVersion      string `json:"apiVersion"`
	PlatformVersion string `json:"platformVersion"`
	RealDisplaySize string `json:"realDisplaySize"`
	DisplayDensity  int    `json:"displayDensity"`
}

// Common Android key codes.
const (
	KeyCodeBack   = 4
	KeyCodeHome   = 3
	KeyCodeMenu   = 82
	KeyCodeEnter  = 66
	KeyCodeDelete = 67
)

// Locator strategies.
const (
	StrategyID              = "id"
	StrategyAccessibilityID = "accessibility id"
	StrategyXPath           = "xpath"
	StrategyClassName       = "class name"
	StrategyText            = "text"
)
