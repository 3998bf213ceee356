package uiautomator2

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Screenshot captures the current screen as PNG.
func (c *Client) Screenshot() ([]byte, error) {
	data, err := c.request("GET", c.sessionPath("/screenshot"), nil)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	b64, ok := resp.Value.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected screenshot response")
	}

	return decodeBase64(b64)
}

// PressKeyCode presses an Android key code.
func (c *Client) PressKeyCode(keyCode int) error {
	req := KeyCodeRequest{KeyCode: keyCode}
	_, err := c.request("POST", c.sessionPath("/appium/device/press_keycode"), req)
	return err
}

// Source returns the UI hierarchy as XML.
func (c *Client) Source() ([]byte, error) {
	data, err := c.request("GET", c.sessionPath("/source"), nil)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	xml, ok := resp.Value.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected source response")
	}
	return []byte(xml), nil
}

// DeviceInfo returns device information from the server.
func (c *Client) DeviceInfo() (DeviceInfo, error) {
	data, err := c.request("GET", c.sessionPath("/appium/device/info"), nil)
	if err != nil {
		return DeviceInfo{}, err
	}

	var resp struct {
		Value DeviceInfo `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return DeviceInfo{}, err
	}

	return resp.Value, nil
}

// decodeBase64 decodes base64 data, tolerating both standard and raw encodings.
func decodeBase64(s string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
