package suite

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/fleetrunner/pkg/core"
)

func init() {
	Register(Case{
		Name: "login/valid_credentials",
		Tags: []string{"login", "smoke"},
		Run:  runLoginValidCredentials,
	})
	Register(Case{
		Name: "login/invalid_password",
		Tags: []string{"login", "negative"},
		Run:  runLoginInvalidPassword,
	})
	Register(Case{
		Name: "login/logout_returns_to_login",
		Tags: []string{"login"},
		Run:  runLogoutReturnsToLogin,
	})
}

func runLoginValidCredentials(s *Session) error {
	account, err := s.Account("standard")
	if err != nil {
		return err
	}

	login := s.LoginPage()
	if err := login.Login(account.Username, account.Password); err != nil {
		return err
	}
	if !login.IsLoginSuccessful() {
		msg := login.ErrorMessage()
		if msg != "" {
			return core.ErrWrongScreen.WithMessage(
				fmt.Sprintf("login rejected: %s", msg))
		}
		return core.ErrWrongScreen.WithMessage("products screen not shown after login")
	}
	return nil
}

func runLoginInvalidPassword(s *Session) error {
	account, err := s.Account("standard")
	if err != nil {
		return err
	}

	login := s.LoginPage()
	if err := login.Login(account.Username, "definitely_wrong"); err != nil {
		return err
	}
	if login.IsLoginSuccessful() {
		return core.ErrWrongScreen.WithMessage("login succeeded with a wrong password")
	}

	msg := login.ErrorMessage()
	if msg == "" {
		return core.ErrElementNotVisible.WithMessage("no error banner after rejected login")
	}
	if !strings.Contains(msg, "do not match") {
		return core.ErrTextMismatch.WithMessage(
			fmt.Sprintf("unexpected login error text: %q", msg))
	}
	return nil
}

func runLogoutReturnsToLogin(s *Session) error {
	account, err := s.Account("standard")
	if err != nil {
		return err
	}

	login := s.LoginPage()
	if err := login.Login(account.Username, account.Password); err != nil {
		return err
	}
	home := s.HomePage()
	if !home.IsDisplayed() {
		return core.ErrWrongScreen.WithMessage("products screen not shown after login")
	}
	if err := home.Logout(); err != nil {
		return err
	}
	if !login.IsDisplayed() {
		return core.ErrWrongScreen.WithMessage("login screen not shown after logout")
	}
	return nil
}
