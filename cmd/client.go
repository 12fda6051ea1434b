package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/client"
	clientDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var (
	clientCreateDTO client.CreateClientDTO
	clientListMine  bool
	clientListName  string
	clientUpdate    struct{ fullName, email, phone, company string }
	clientDeleteYes bool
)

var clientCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a client you will follow (sales)",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		created, err := deps.Clients.Create(ctx, id, clientCreateDTO)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleClients, clientDatamodel.Headers, created)
	}),
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		var (
			clients []*clientDatamodel.Client
			err     error
		)
		switch {
		case clientListMine:
			clients, err = deps.Clients.Mine(ctx, id)
		case clientListName != "":
			clients, err = deps.Clients.FilterByName(ctx, id, clientListName)
		default:
			clients, err = deps.Clients.List(ctx, id)
		}
		if err != nil {
			return err
		}
		return printRecords(cascade.TitleClients, clientDatamodel.Headers, clients)
	}),
}

var clientGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one client",
	Args:  exactArgs(1, "a client id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := deps.Clients.Find(ctx, id, clientID)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleClients, clientDatamodel.Headers, c)
	}),
}

var clientUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change one of your clients (sales)",
	Args:  exactArgs(1, "a client id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}
		dto := client.UpdateClientDTO{
			FullName:    optional(clientUpdate.fullName),
			Email:       optional(clientUpdate.email),
			Phone:       optional(clientUpdate.phone),
			CompanyName: optional(clientUpdate.company),
		}
		if err := deps.Clients.Update(ctx, id, crud.ByID(clientID), dto); err != nil {
			return err
		}
		fmt.Println("Client updated.")
		return nil
	}),
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your clients with its contracts and events (sales)",
	Args:  exactArgs(1, "a client id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		clientID, err := parseID(args[0])
		if err != nil {
			return err
		}
		groups, err := deps.Clients.PreviewDelete(ctx, id, crud.ByID(clientID))
		if err != nil {
			return err
		}
		ok, err := confirmDelete(os.Stdout, groups, clientDeleteYes)
		if err != nil || !ok {
			return err
		}
		if err := deps.Clients.Delete(ctx, id, crud.ByID(clientID)); err != nil {
			return err
		}
		fmt.Println("Client deleted.")
		return nil
	}),
}

func init() {
	clientCreateCmd.Flags().StringVar(&clientCreateDTO.FullName, "full-name", "", "contact full name")
	clientCreateCmd.Flags().StringVar(&clientCreateDTO.Email, "email", "", "contact email")
	clientCreateCmd.Flags().StringVar(&clientCreateDTO.Phone, "phone", "", "contact phone")
	clientCreateCmd.Flags().StringVar(&clientCreateDTO.CompanyName, "company", "", "company name")

	clientListCmd.Flags().BoolVar(&clientListMine, "mine", false, "only the clients you follow")
	clientListCmd.Flags().StringVar(&clientListName, "name", "", "filter on the client name")

	clientUpdateCmd.Flags().StringVar(&clientUpdate.fullName, "full-name", "", "new full name")
	clientUpdateCmd.Flags().StringVar(&clientUpdate.email, "email", "", "new email")
	clientUpdateCmd.Flags().StringVar(&clientUpdate.phone, "phone", "", "new phone")
	clientUpdateCmd.Flags().StringVar(&clientUpdate.company, "company", "", "new company name")

	clientDeleteCmd.Flags().BoolVarP(&clientDeleteYes, "yes", "y", false, "skip the confirmation")

	clientCmd.AddCommand(clientCreateCmd, clientListCmd, clientGetCmd, clientUpdateCmd, clientDeleteCmd)
}
