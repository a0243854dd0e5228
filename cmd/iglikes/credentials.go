package main

import (
	"errors"
	"fmt"
	"os"

	"iglikes/pkg/config"
	"iglikes/pkg/ui"
)

// passwordSource looks up a stored password; *auth.Manager is one
type passwordSource interface {
	Password(username string) (string, error)
}

// resolveCredentials picks the login for this run. Stored credentials are
// offered first (taken as-is with assumeYes); a username without a
// password is completed from the secure store. Newly typed credentials are
// written back to the config file at configPath.
func resolveCredentials(p *ui.Prompter, cfg *config.Config, configPath string, secure passwordSource, assumeYes bool) (string, string, error) {
	if cfg.HasCredentials() {
		use := assumeYes
		if !use {
			fmt.Fprintln(ui.Output, "🔑 Found existing login credentials in the config file.")
			var err error
			use, err = p.AskYesNo(fmt.Sprintf("Would you like to use the existing credentials (%s)?", cfg.Username))
			if err != nil {
				return "", "", err
			}
		}

		if use {
			password := cfg.Password
			if password == "" && secure != nil {
				if stored, err := secure.Password(cfg.Username); err == nil {
					password = stored
				}
			}
			if password == "" {
				var err error
				password, err = p.AskPassword("Enter your Instagram password:")
				if err != nil {
					return "", "", err
				}
			}
			return cfg.Username, password, nil
		}
	}

	username, err := p.AskRequired("Enter your Instagram username:")
	if err != nil {
		return "", "", err
	}
	password, err := p.AskPassword("Enter your Instagram password:")
	if err != nil {
		return "", "", err
	}

	if err := saveCredentials(configPath, username, password); err != nil {
		return "", "", err
	}
	cfg.Username, cfg.Password = username, password
	return username, password, nil
}

// saveCredentials updates the credentials in the config file without
// persisting any environment or flag overrides.
func saveCredentials(path, username, password string) error {
	stored := config.DefaultConfig()
	if err := stored.LoadFromFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	stored.Username = username
	stored.Password = password
	if err := stored.Save(path); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}
