// Package config handles configuration for fleetrunner.
//
// Two documents are loaded once at process start and are immutable for the
// run's duration: devices.yaml (the device fleet and the app under test)
// and credentials.yaml (named test accounts).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/fleetrunner/pkg/core"
)

// Device describes one target device and the application under test.
type Device struct {
	ID              string `yaml:"id"`
	Serial          string `yaml:"serial"`
	PlatformVersion string `yaml:"platform_version"`
	AppPackage      string `yaml:"app_package"`
	AppActivity     string `yaml:"app_activity"`
}

// Account is a named credential record.
type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the full harness configuration.
type Config struct {
	Devices  []Device
	Accounts map[string]Account
}

// devicesFile mirrors the devices.yaml document.
type devicesFile struct {
	Devices []Device `yaml:"devices"`
}

// credentialsFile mirrors the credentials.yaml document.
type credentialsFile struct {
	Accounts map[string]Account `yaml:"accounts"`
}

// LoadDevices loads the device list from a file.
func LoadDevices(path string) ([]Device, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var f devicesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, d := range f.Devices {
		if d.ID == "" {
			return nil, fmt.Errorf("%s: device %d has no id", path, i)
		}
		if d.Serial == "" {
			return nil, fmt.Errorf("%s: device %q has no serial", path, d.ID)
		}
	}

	return f.Devices, nil
}

// LoadCredentials loads the account map from a file.
func LoadCredentials(path string) (map[string]Account, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var f credentialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if f.Accounts == nil {
		f.Accounts = map[string]Account{}
	}
	return f.Accounts, nil
}

// LoadDir loads devices.yaml and credentials.yaml from the directory.
// A missing credentials.yaml yields an empty account map; a missing
// devices.yaml is an error since nothing can run without devices.
func LoadDir(dir string) (*Config, error) {
	devices, err := LoadDevices(filepath.Join(dir, "devices.yaml"))
	if err != nil {
		return nil, err
	}

	accounts := map[string]Account{}
	credPath := filepath.Join(dir, "credentials.yaml")
	if _, err := os.Stat(credPath); err == nil {
		accounts, err = LoadCredentials(credPath)
		if err != nil {
			return nil, err
		}
	}

	return &Config{Devices: devices, Accounts: accounts}, nil
}

// Device returns the configuration for the given device ID.
func (c *Config) Device(id string) (Device, error) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, nil
		}
	}
	return Device{}, core.ErrUnknownDevice.WithMessage(
		fmt.Sprintf("no configuration found for device %q", id))
}

// DeviceIDs returns the IDs of all configured devices, in file order.
func (c *Config) DeviceIDs() []string {
	ids := make([]string, len(c.Devices))
	for i, d := range c.Devices {
		ids[i] = d.ID
	}
	return ids
}

// Account returns the credentials for the given account name.
// Environment variables FLEET_<NAME>_USERNAME and FLEET_<NAME>_PASSWORD
// override the file values, so secrets can stay out of the repo.
func (c *Config) Account(name string) (Account, error) {
	acct, ok := c.Accounts[name]

	prefix := "FLEET_" + strings.ToUpper(name) + "_"
	if v := os.Getenv(prefix + "USERNAME"); v != "" {
		acct.Username = v
		ok = true
	}
	if v := os.Getenv(prefix + "PASSWORD"); v != "" {
		acct.Password = v
		ok = true
	}

	if !ok {
		return Account{}, core.ErrUnknownAccount.WithMessage(
			fmt.Sprintf("no credentials found for account %q", name))
	}
	return acct, nil
}
