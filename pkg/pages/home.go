package pages

import (
	"fmt"
	"time"
)

// Swag Labs home (products) screen selectors.
var (
	productsTitle = ByText("PRODUCTS")
	inventoryList = ByAccessibilityID("test-INVENTORY LIST")
	shoppingCart  = ByAccessibilityID("test-Cart")
	menuButton    = ByAccessibilityID("test-Menu")
	logoutButton  = ByAccessibilityID("test-LOGOUT")
)

// HomePage drives the Swag Labs products screen.
type HomePage struct {
	BasePage
}

// NewHomePage creates a HomePage over the given base.
func NewHomePage(base BasePage) *HomePage {
	return &HomePage{BasePage: base}
}

// IsDisplayed checks whether the products screen is shown.
func (p *HomePage) IsDisplayed() bool {
	return p.IsPresent(productsTitle, 5*time.Second)
}

// ProductsTitle returns the products header text.
func (p *HomePage) ProductsTitle() (string, error) {
	return p.TextOf(productsTitle)
}

// OpenCart opens the shopping cart.
func (p *HomePage) OpenCart() error {
	return p.Tap(shoppingCart)
}

// OpenMenu opens the side menu.
func (p *HomePage) OpenMenu() error {
	return p.Tap(menuButton)
}

// Logout logs out through the side menu.
func (p *HomePage) Logout() error {
	if err := p.OpenMenu(); err != nil {
		return err
	}
	return p.Tap(logoutButton)
}

// SelectProduct taps the product item at the given 0-based index.
func (p *HomePage) SelectProduct(index int) error {
	return p.Tap(ByAccessibilityID(fmt.Sprintf("test-Item_%d", index)))
}
