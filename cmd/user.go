package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/user"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage collaborators (accounting only for changes)",
}

var (
	userCreateDTO   user.CreateUserDTO
	userListRole    string
	userUpdateFirst string
	userUpdateLast  string
	userUpdateEmail string
	userUpdateRole  string
	userResetPass   bool
	userDeleteYes   bool
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a collaborator",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		password, err := readSecret("Password for the new user: ")
		if err != nil {
			return err
		}
		dto := userCreateDTO
		dto.Password = password

		created, err := deps.Users.Create(ctx, id, dto)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleUsers, userDatamodel.Headers, created)
	}),
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collaborators",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		var (
			users []*userDatamodel.User
			err   error
		)
		if userListRole != "" {
			role, perr := userDatamodel.ParseRole(userListRole)
			if perr != nil {
				return usageError(perr.Error())
			}
			users, err = deps.Users.ByRole(ctx, id, role)
		} else {
			users, err = deps.Users.List(ctx, id)
		}
		if err != nil {
			return err
		}
		return printRecords(cascade.TitleUsers, userDatamodel.Headers, users)
	}),
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one collaborator",
	Args:  exactArgs(1, "a user id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}
		u, err := deps.Users.Find(ctx, id, userID)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleUsers, userDatamodel.Headers, u)
	}),
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a collaborator",
	Args:  exactArgs(1, "a user id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}

		dto := user.UpdateUserDTO{
			FirstName: optional(userUpdateFirst),
			LastName:  optional(userUpdateLast),
			Email:     optional(userUpdateEmail),
			Role:      optional(userUpdateRole),
		}
		if userResetPass {
			password, err := readSecret("New password: ")
			if err != nil {
				return err
			}
			dto.Password = &password
		}

		if err := deps.Users.Update(ctx, id, crud.ByID(userID), dto); err != nil {
			return err
		}
		fmt.Println("User updated.")
		return nil
	}),
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a collaborator and everything assigned to them",
	Args:  exactArgs(1, "a user id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}
		groups, err := deps.Users.PreviewDelete(ctx, id, crud.ByID(userID))
		if err != nil {
			return err
		}
		ok, err := confirmDelete(os.Stdout, groups, userDeleteYes)
		if err != nil || !ok {
			return err
		}
		if err := deps.Users.Delete(ctx, id, crud.ByID(userID)); err != nil {
			return err
		}
		fmt.Println("User deleted.")
		return nil
	}),
}

func init() {
	userCreateCmd.Flags().StringVar(&userCreateDTO.FirstName, "first-name", "", "first name")
	userCreateCmd.Flags().StringVar(&userCreateDTO.LastName, "last-name", "", "last name")
	userCreateCmd.Flags().StringVar(&userCreateDTO.Email, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&userCreateDTO.Role, "role", "", "sales, accounting or support")

	userListCmd.Flags().StringVar(&userListRole, "role", "", "only list this role")

	userUpdateCmd.Flags().StringVar(&userUpdateFirst, "first-name", "", "new first name")
	userUpdateCmd.Flags().StringVar(&userUpdateLast, "last-name", "", "new last name")
	userUpdateCmd.Flags().StringVar(&userUpdateEmail, "email", "", "new email address")
	userUpdateCmd.Flags().StringVar(&userUpdateRole, "role", "", "new role")
	userUpdateCmd.Flags().BoolVar(&userResetPass, "password", false, "prompt for a new password")

	userDeleteCmd.Flags().BoolVarP(&userDeleteYes, "yes", "y", false, "skip the confirmation")

	userCmd.AddCommand(userCreateCmd, userListCmd, userGetCmd, userUpdateCmd, userDeleteCmd)
}
