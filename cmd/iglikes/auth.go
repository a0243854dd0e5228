package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iglikes/pkg/auth"
	"iglikes/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Instagram passwords",
	Long: `Store Instagram passwords outside the config file.

Passwords go to the system keychain when one is available and to an
encrypted file in the user config directory otherwise. A config file that
names a username but leaves the password empty is completed from here.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store a password",
	Example: `  iglikes auth login
  iglikes auth login myaccount`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout <username>",
	Short: "Remove a stored password",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogout,
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE:  runAuthList,
}

var authSetDefault bool

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authListCmd)

	authLoginCmd.Flags().BoolVar(&authSetDefault, "default", true, "also write the username (without the password) to the config file")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	p := ui.NewPrompter(os.Stdin, ui.Output)

	username := ""
	if len(args) > 0 {
		username = args[0]
	} else if username, err = p.AskRequired("Enter your Instagram username:"); err != nil {
		return err
	}

	password, err := p.AskPassword("Enter your Instagram password:")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if err := manager.Store(&auth.Account{Username: username, Password: password}); err != nil {
		return err
	}

	if authSetDefault {
		if err := saveCredentials(resolvedConfigPath(), username, ""); err != nil {
			return err
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Stored password for %s", username))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Removed stored password for %s", args[0]))
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		ui.PrintWarning("No stored accounts")
		return nil
	}

	for _, account := range accounts {
		safe := auth.SanitizeAccount(account)
		fmt.Fprintf(ui.Output, "%s  %s  %s\n",
			ui.Cyan(safe.Username),
			ui.Dim(safe.Password),
			ui.Dim("updated "+safe.LastModified.Format("2006-01-02 15:04")),
		)
	}
	return nil
}
