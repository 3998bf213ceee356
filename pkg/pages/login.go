package pages

import "time"

// Swag Labs login screen selectors.
var (
	usernameField = ByAccessibilityID("test-Username")
	passwordField = ByAccessibilityID("test-Password")
	loginButton   = ByAccessibilityID("test-LOGIN")
	loginForm     = ByAccessibilityID("test-Login")
	errorBanner   = ByAccessibilityID("test-Error message")
)

// LoginPage drives the Swag Labs login screen.
type LoginPage struct {
	BasePage
}

// NewLoginPage creates a LoginPage over the given base.
func NewLoginPage(base BasePage) *LoginPage {
	return &LoginPage{BasePage: base}
}

// EnterUsername types the username.
func (p *LoginPage) EnterUsername(username string) error {
	return p.TypeText(usernameField, username)
}

// EnterPassword types the password.
func (p *LoginPage) EnterPassword(password string) error {
	return p.TypeText(passwordField, password)
}

// SubmitLogin taps the login button.
func (p *LoginPage) SubmitLogin() error {
	return p.Tap(loginButton)
}

// Login performs the full login action with the given credentials.
// The app lands on this screen after a cold launch, so no navigation
// is needed first.
func (p *LoginPage) Login(username, password string) error {
	if err := p.EnterUsername(username); err != nil {
		return err
	}
	if err := p.EnterPassword(password); err != nil {
		return err
	}
	return p.SubmitLogin()
}

// IsLoginSuccessful checks whether login landed on the products screen.
func (p *LoginPage) IsLoginSuccessful() bool {
	return p.IsPresent(productsTitle, 5*time.Second)
}

// IsDisplayed checks whether the login form is shown.
func (p *LoginPage) IsDisplayed() bool {
	return p.IsPresent(loginForm, 5*time.Second)
}

// ErrorMessage returns the login error banner text, or "" when no error
// is shown.
func (p *LoginPage) ErrorMessage() string {
	if !p.IsPresent(errorBanner, 3*time.Second) {
		return ""
	}
	text, err := p.TextOf(errorBanner)
	if err != nil {
		return ""
	}
	return text
}
