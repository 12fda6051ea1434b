package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/spf13/cobra"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store an access token",
	RunE: withApp(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		password, err := readSecret("Password: ")
		if err != nil {
			return err
		}

		result, err := deps.Auth.Authenticate(ctx, auth.LoginDTO{Email: loginEmail, Password: password})
		if err != nil {
			return err
		}
		if err := deps.Tokens.Save(result.AccessToken); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s) until %s\n",
			result.Identity.Email, result.Identity.Role.Title(), result.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: withApp(func(_ context.Context, deps *app.Dependencies, _ []string) error {
		if err := deps.Tokens.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		me, err := deps.Users.Me(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> %s\n", me.FullName(), me.Email, me.Role.Title())
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	_ = loginCmd.MarkFlagRequired("email")
}
