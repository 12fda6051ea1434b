package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/client"
	"github.com/frahmantamala/epic-crm/internal/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/epic-crm/internal/event"
	"github.com/frahmantamala/epic-crm/internal/user"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const seedPassword = "password123"

var seedClear bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long: `Seed the database with one user per department and a demo client,
contract and event. Every seeded user logs in with "` + seedPassword + `".`,
	RunE: withApp(func(ctx context.Context, deps *app.Dependencies, _ []string) error {
		if seedClear {
			if err := datamodel.Reset(deps.DB.WithContext(ctx)); err != nil {
				return internal.NewInternalError("failed to reset the database", err)
			}
		} else if err := datamodel.Migrate(deps.DB.WithContext(ctx)); err != nil {
			return internal.NewInternalError("failed to create the tables", err)
		}

		admin, err := seedUser(ctx, deps, nil, "Ada", "Admin", "admin@epic.events", userDatamodel.RoleAccounting)
		if err != nil {
			return err
		}
		sales, err := seedUser(ctx, deps, admin, "Sam", "Sales", "sales@epic.events", userDatamodel.RoleSales)
		if err != nil {
			return err
		}
		support, err := seedUser(ctx, deps, admin, "Sue", "Support", "support@epic.events", userDatamodel.RoleSupport)
		if err != nil {
			return err
		}

		c, err := deps.Clients.Create(ctx, *sales, client.CreateClientDTO{
			FullName:    "Kevin Casey",
			Email:       "kevin@startup.io",
			Phone:       "+678 123 456 78",
			CompanyName: "Cool Startup LLC",
		})
		if internal.HasErrorCode(err, internal.ErrCodeIntegrityViolation) {
			fmt.Println("Demo client already present, skipping demo records")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println("Seeded client:", c.Email)

		k, err := deps.Contracts.Create(ctx, *sales, contract.CreateContractDTO{
			ClientID:    c.ID,
			TotalAmount: decimal.NewFromInt(5000),
			IsSigned:    true,
		})
		if err != nil {
			return err
		}
		fmt.Println("Seeded contract:", k.ID)

		start := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
		e, err := deps.Events.Create(ctx, *sales, event.CreateEventDTO{
			ContractID:       k.ID,
			Name:             "Startup launch party",
			StartDate:        start,
			EndDate:          start.Add(5 * time.Hour),
			Location:         "53 Rue du Château, 41120 Candé-sur-Beuvron",
			Attendees:        75,
			Notes:            "Cocktail dress code",
			SupportContactID: &support.UserID,
		})
		if err != nil {
			return err
		}
		fmt.Println("Seeded event:", e.Name)
		return nil
	}),
}

// seedUser creates the user or returns the one already registered under
// that email. A nil creator makes an admin.
func seedUser(ctx context.Context, deps *app.Dependencies, creator *auth.Identity, first, last, email string, role userDatamodel.Role) (*auth.Identity, error) {
	dto := user.CreateUserDTO{FirstName: first, LastName: last, Email: email, Password: seedPassword, Role: string(role)}

	var (
		created *userDatamodel.User
		err     error
	)
	if creator == nil {
		created, err = deps.Users.CreateAdmin(ctx, dto)
	} else {
		created, err = deps.Users.Create(ctx, *creator, dto)
	}
	switch {
	case err == nil:
		fmt.Println("Seeded user:", email)
	case internal.HasErrorCode(err, internal.ErrCodeIntegrityViolation):
		fmt.Println("User already exists:", email)
		created = &userDatamodel.User{}
		if err := deps.DB.WithContext(ctx).Where("email = ?", email).First(created).Error; err != nil {
			return nil, internal.NewInternalError("failed to look up seeded user", err)
		}
	default:
		return nil, err
	}

	return &auth.Identity{UserID: created.ID, Email: created.Email, Role: created.Role}, nil
}

func init() {
	seedCmd.Flags().BoolVar(&seedClear, "clear", false, "drop every table before seeding")
}
