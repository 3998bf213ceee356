package suite

import (
	"github.com/rs/zerolog"

	"github.com/devicelab-dev/fleetrunner/pkg/config"
	"github.com/devicelab-dev/fleetrunner/pkg/pages"
	"github.com/devicelab-dev/fleetrunner/pkg/uiautomator2"
)

// Session is the per-device context handed to each test case. The runner
// builds one session per device process; cases never share state across
// devices.
type Session struct {
	Client *uiautomator2.Client
	Device config.Device
	Log    zerolog.Logger

	cfg *config.Config
}

// NewSession builds a session over an established automation client.
func NewSession(client *uiautomator2.Client, device config.Device, cfg *config.Config, log zerolog.Logger) *Session {
	return &Session{Client: client, Device: device, Log: log, cfg: cfg}
}

// Account looks up credentials by account name.
func (s *Session) Account(name string) (config.Account, error) {
	return s.cfg.Account(name)
}

// LoginPage returns a login page object bound to this session's client.
func (s *Session) LoginPage() *pages.LoginPage {
	return pages.NewLoginPage(pages.NewBasePage(s.Client))
}

// HomePage returns a home page object bound to this session's client.
func (s *Session) HomePage() *pages.HomePage {
	return pages.NewHomePage(pages.NewBasePage(s.Client))
}
