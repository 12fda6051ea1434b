package cmd

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/user"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Maintenance commands guarded by the master password",
}

var (
	adminCreateDTO user.CreateUserDTO
	adminYes       bool
)

// withMaster asks for the master password before run. It does not look at
// the saved login.
func withMaster(run runFunc) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, deps *app.Dependencies, args []string) error {
		given, err := readSecret("Master password: ")
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(deps.Config.Security.MasterPassword)) != 1 {
			deps.Logger.Warn("master password rejected")
			return internal.NewForbiddenError("Wrong master password", internal.ErrCodeMasterPassword)
		}
		return run(ctx, deps, args)
	})
}

var adminCreateCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an accounting user without being logged in",
	RunE: withMaster(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		password, err := readSecret("Password for the new admin: ")
		if err != nil {
			return err
		}
		dto := adminCreateDTO
		dto.Password = password

		created, err := deps.Users.CreateAdmin(ctx, dto)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleUsers, userDatamodel.Headers, created)
	}),
}

var adminResetCmd = &cobra.Command{
	Use:   "reset-db",
	Short: "Drop and recreate every table",
	RunE: withMaster(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		if !adminYes && !confirm("Every record will be lost. Continue?") {
			return nil
		}
		if err := datamodel.Reset(deps.DB.WithContext(ctx)); err != nil {
			return internal.NewInternalError("failed to reset the database", err)
		}
		deps.Logger.Warn("database reset")
		fmt.Println("Database reset.")
		return nil
	}),
}

var adminDeleteUsersCmd = &cobra.Command{
	Use:   "delete-users",
	Short: "Delete every user with everything they own",
	RunE: withMaster(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		if !adminYes && !confirm("Every user and their records will be lost. Continue?") {
			return nil
		}
		if err := deps.Users.DeleteAll(ctx); err != nil {
			return err
		}
		fmt.Println("All users deleted.")
		return nil
	}),
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the tables that do not exist yet",
	RunE: withApp(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		if err := datamodel.Migrate(deps.DB.WithContext(ctx)); err != nil {
			return internal.NewInternalError("failed to create the tables", err)
		}
		fmt.Println("Database ready.")
		return nil
	}),
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminCreateDTO.FirstName, "first-name", "", "first name")
	adminCreateCmd.Flags().StringVar(&adminCreateDTO.LastName, "last-name", "", "last name")
	adminCreateCmd.Flags().StringVar(&adminCreateDTO.Email, "email", "", "login email")

	adminResetCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "skip the confirmation")
	adminDeleteUsersCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "skip the confirmation")

	adminCmd.AddCommand(adminCreateCmd, adminResetCmd, adminDeleteUsersCmd)
}
