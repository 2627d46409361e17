package users

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/crucial707/blog-api/cmd/cli/config"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Register, log in and log out",
		Long: `Register or login a user against the Blog API.
Stores the access token locally for future commands.`,
	}

	usersCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Register User
// ==========================
func registerCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user with username and password. Missing values are prompted for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing(cmd.InOrStdin(), &username, &password); err != nil {
				return err
			}

			var out struct {
				Msg  string `json:"msg"`
				User struct {
					ID       int    `json:"id"`
					Username string `json:"username"`
				} `json:"user"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.Do("POST", "/register", "", payload, &out); err != nil {
				return err
			}

			fmt.Printf("User %q registered (id %d). You can now login.\n", out.User.Username, out.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

// ==========================
// Login User
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the access token locally for future CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing(cmd.InOrStdin(), &username, &password); err != nil {
				return err
			}

			var out struct {
				AccessToken string `json:"access_token"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := client.Do("POST", "/login", "", payload, &out); err != nil {
				return err
			}
			if out.AccessToken == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.AccessToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful! Token saved locally.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

// ==========================
// Logout User
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println("No user logged in.")
				return nil
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

func promptMissing(in io.Reader, username, password *string) error {
	if *username != "" && *password != "" {
		return nil
	}
	reader := bufio.NewReader(in)
	read := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Print(label)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		*dst = strings.TrimSpace(line)
		return nil
	}
	if err := read("Username: ", username); err != nil {
		return err
	}
	return read("Password: ", password)
}
