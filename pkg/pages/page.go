// Package pages implements the Page Object Model for the app under test.
//
// Each screen is a type exposing high-level actions; element lookup and
// interaction go through BasePage, which wraps the uiautomator2 client with
// polling waits and settle delays.
package pages

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/fleetrunner/pkg/core"
	"github.com/devicelab-dev/fleetrunner/pkg/uiautomator2"
)

// Selector identifies an element by locator strategy and value.
type Selector struct {
	Strategy string
	Value    string
}

// String returns "strategy=value" for error messages and logs.
func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.Strategy, s.Value)
}

// ByAccessibilityID selects by content description.
func ByAccessibilityID(value string) Selector {
	return Selector{Strategy: uiautomator2.StrategyAccessibilityID, Value: value}
}

// ByText selects by visible text.
func ByText(value string) Selector {
	return Selector{Strategy: uiautomator2.StrategyText, Value: value}
}

// ByID selects by resource ID.
func ByID(value string) Selector {
	return Selector{Strategy: uiautomator2.StrategyID, Value: value}
}

// Default wait behavior. Tests lower these to keep polling fast.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultSettle       = 500 * time.Millisecond
)

// BasePage contains common element operations for all pages.
type BasePage struct {
	client *uiautomator2.Client

	Timeout      time.Duration // Max wait when finding an element
	PollInterval time.Duration // Delay between find attempts
	Settle       time.Duration // Delay after taps and input
}

// NewBasePage creates a BasePage with default wait behavior.
func NewBasePage(client *uiautomator2.Client) BasePage {
	return BasePage{
		client:       client,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		Settle:       DefaultSettle,
	}
}

// Client returns the underlying automation client.
func (p *BasePage) Client() *uiautomator2.Client {
	return p.client
}

// Find polls for an element until found or the timeout elapses.
func (p *BasePage) Find(sel Selector, timeout time.Duration) (*uiautomator2.Element, error) {
	if timeout <= 0 {
		timeout = p.Timeout
	}

	deadline := time.Now().Add(timeout)
	for {
		el, err := p.client.FindElement(sel.Strategy, sel.Value)
		if err == nil {
			return el, nil
		}
		if time.Now().After(deadline) {
			return nil, core.ErrElementNotFound.WithMessage(
				fmt.Sprintf("element not found within %v: %s", timeout, sel))
		}
		time.Sleep(p.PollInterval)
	}
}

// Tap finds an element and clicks it.
func (p *BasePage) Tap(sel Selector) error {
	el, err := p.Find(sel, 0)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("tap %s: %w", sel, err)
	}
	time.Sleep(p.Settle)
	return nil
}

// TypeText finds an element, clears it, and types the given text.
func (p *BasePage) TypeText(sel Selector, text string) error {
	el, err := p.Find(sel, 0)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", sel, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s: %w", sel, err)
	}
	time.Sleep(p.Settle)
	return nil
}

// TextOf returns the text content of an element.
func (p *BasePage) TextOf(sel Selector) (string, error) {
	el, err := p.Find(sel, 0)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// IsPresent checks if an element appears within the timeout.
func (p *BasePage) IsPresent(sel Selector, timeout time.Duration) bool {
	_, err := p.Find(sel, timeout)
	return err == nil
}

// WaitFor waits for an element to be present.
func (p *BasePage) WaitFor(sel Selector) error {
	_, err := p.Find(sel, 0)
	return err
}

// Back presses the Android back key.
func (p *BasePage) Back() error {
	if err := p.client.PressKeyCode(uiautomator2.KeyCodeBack); err != nil {
		return fmt.Errorf("press back: %w", err)
	}
	time.Sleep(p.Settle)
	return nil
}
