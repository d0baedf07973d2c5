package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shopkit-dev/shopctl/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the console session",
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin console",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		var err error
		if email == "" {
			if email, err = promptLine("Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		a, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.ses.AdminLogin(cmd.Context(), email, password); err != nil {
			return errors.New(a.ses.Err())
		}
		user := a.ses.CurrentUser()
		fmt.Printf("Login successful. Signed in as %s (%s).\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		a.ses.Bootstrap(cmd.Context())
		a.ses.Logout(cmd.Context())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new platform account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		var err error
		if name == "" {
			if name, err = promptLine("Name: "); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = promptLine("Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("passwords do not match")
		}

		a, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if _, err := a.ses.Register(cmd.Context(), domain.Registration{Name: name, Email: email, Password: password}); err != nil {
			return fmt.Errorf("registration failed: %s", a.ses.Err())
		}
		fmt.Println("Account registered. Sign in with 'shopctl auth login'.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		a.ses.Bootstrap(cmd.Context())
		user := a.ses.CurrentUser()
		if user == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		return printYAML(user)
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update-profile",
	Short: "Change the signed-in account's name, email or password",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		changePassword, _ := cmd.Flags().GetBool("password")

		update := domain.ProfileUpdate{Name: name, Email: email}
		if changePassword {
			password, err := promptPassword("New password: ")
			if err != nil {
				return err
			}
			update.Password = password
		}
		if update == (domain.ProfileUpdate{}) {
			return errors.New("nothing to update; pass --name, --email or --password")
		}

		a, cleanup, err := requireAdmin(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if !a.ses.UpdateProfile(cmd.Context(), update) {
			return fmt.Errorf("profile update failed: %s", a.ses.Err())
		}
		fmt.Println("Profile updated.")
		return printYAML(a.ses.CurrentUser())
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email (prompted when omitted)")
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	updateProfileCmd.Flags().String("name", "", "new display name")
	updateProfileCmd.Flags().String("email", "", "new email")
	updateProfileCmd.Flags().Bool("password", false, "prompt for a new password")

	authCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd, updateProfileCmd)
}
