package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	"github.com/frahmantamala/epic-crm/internal/contract"
	contractDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage contracts",
}

var contractFlags struct {
	clientID  int64
	total     string
	due       string
	signed    bool
	setSigned string
	mine      bool
	unsigned  bool
	unpaid    bool
	yes       bool
}

var contractCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a contract for a client (sales for own clients, accounting)",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		total, err := parseAmount("total", contractFlags.total)
		if err != nil {
			return err
		}
		if total == nil {
			return usageError("--total is required")
		}
		due, err := parseAmount("due", contractFlags.due)
		if err != nil {
			return err
		}

		created, err := deps.Contracts.Create(ctx, id, contract.CreateContractDTO{
			ClientID:    contractFlags.clientID,
			TotalAmount: *total,
			AmountDue:   due,
			IsSigned:    contractFlags.signed,
		})
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleContracts, contractDatamodel.Headers, created)
	}),
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contracts",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		list := deps.Contracts.List
		switch {
		case contractFlags.mine:
			list = deps.Contracts.Mine
		case contractFlags.unsigned:
			list = deps.Contracts.Unsigned
		case contractFlags.unpaid:
			list = deps.Contracts.Unpaid
		}
		contracts, err := list(ctx, id)
		if err != nil {
			return err
		}
		return printRecords(cascade.TitleContracts, contractDatamodel.Headers, contracts)
	}),
}

var contractGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one contract",
	Args:  exactArgs(1, "a contract id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		contractID, err := parseID(args[0])
		if err != nil {
			return err
		}
		k, err := deps.Contracts.Find(ctx, id, contractID)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleContracts, contractDatamodel.Headers, k)
	}),
}

var contractUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change amounts or the signature of a contract",
	Args:  exactArgs(1, "a contract id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		contractID, err := parseID(args[0])
		if err != nil {
			return err
		}
		var dto contract.UpdateContractDTO
		if dto.TotalAmount, err = parseAmount("total", contractFlags.total); err != nil {
			return err
		}
		if dto.AmountDue, err = parseAmount("due", contractFlags.due); err != nil {
			return err
		}
		if contractFlags.setSigned != "" {
			signed, err := strconv.ParseBool(contractFlags.setSigned)
			if err != nil {
				return usageError("--signed expects true or false")
			}
			dto.IsSigned = &signed
		}

		if err := deps.Contracts.Update(ctx, id, crud.ByID(contractID), dto); err != nil {
			return err
		}
		fmt.Println("Contract updated.")
		return nil
	}),
}

var contractDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contract with its events",
	Args:  exactArgs(1, "a contract id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		contractID, err := parseID(args[0])
		if err != nil {
			return err
		}
		groups, err := deps.Contracts.PreviewDelete(ctx, id, crud.ByID(contractID))
		if err != nil {
			return err
		}
		ok, err := confirmDelete(os.Stdout, groups, contractFlags.yes)
		if err != nil || !ok {
			return err
		}
		if err := deps.Contracts.Delete(ctx, id, crud.ByID(contractID)); err != nil {
			return err
		}
		fmt.Println("Contract deleted.")
		return nil
	}),
}

// parseAmount returns nil for an unset flag.
func parseAmount(flag, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, internal.NewValidationFieldError(flag, fmt.Sprintf("%q is not an amount", value), internal.ErrCodeInvalidAmount)
	}
	return &d, nil
}

func init() {
	contractCreateCmd.Flags().Int64Var(&contractFlags.clientID, "client", 0, "client id")
	contractCreateCmd.Flags().StringVar(&contractFlags.total, "total", "", "total amount")
	contractCreateCmd.Flags().StringVar(&contractFlags.due, "due", "", "amount still due, defaults to the total")
	contractCreateCmd.Flags().BoolVar(&contractFlags.signed, "signed", false, "the contract is already signed")

	contractUpdateCmd.Flags().StringVar(&contractFlags.total, "total", "", "new total amount")
	contractUpdateCmd.Flags().StringVar(&contractFlags.due, "due", "", "new amount due")
	contractUpdateCmd.Flags().StringVar(&contractFlags.setSigned, "signed", "", "true or false")

	contractDeleteCmd.Flags().BoolVarP(&contractFlags.yes, "yes", "y", false, "skip the confirmation")

	contractListCmd.Flags().BoolVar(&contractFlags.mine, "mine", false, "only the contracts of your clients")
	contractListCmd.Flags().BoolVar(&contractFlags.unsigned, "unsigned", false, "only contracts not signed yet")
	contractListCmd.Flags().BoolVar(&contractFlags.unpaid, "unpaid", false, "only contracts with an amount due")
	contractListCmd.MarkFlagsMutuallyExclusive("mine", "unsigned", "unpaid")

	contractCmd.AddCommand(contractCreateCmd, contractListCmd, contractGetCmd, contractUpdateCmd, contractDeleteCmd)
}
