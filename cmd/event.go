package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/app"
	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/cascade"
	eventDatamodel "github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/crud"
	"github.com/frahmantamala/epic-crm/internal/event"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04"

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage events",
}

var eventFlags struct {
	contractID int64
	name       string
	start      string
	end        string
	location   string
	attendees  int
	// update only; -1 leaves the count alone
	newCount   int
	notes      string
	support    int64
	mine       bool
	unassigned bool
	yes        bool
}

var eventCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Plan an event for a signed contract (sales)",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		start, err := parseDate("start", eventFlags.start)
		if err != nil {
			return err
		}
		end, err := parseDate("end", eventFlags.end)
		if err != nil {
			return err
		}
		dto := event.CreateEventDTO{
			ContractID: eventFlags.contractID,
			Name:       eventFlags.name,
			Location:   eventFlags.location,
			Attendees:  eventFlags.attendees,
			Notes:      eventFlags.notes,
		}
		if start != nil {
			dto.StartDate = *start
		}
		if end != nil {
			dto.EndDate = *end
		}
		if eventFlags.support != 0 {
			dto.SupportContactID = &eventFlags.support
		}

		created, err := deps.Events.Create(ctx, id, dto)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleEvents, eventDatamodel.Headers, created)
	}),
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, _ []string) error {
		list := deps.Events.List
		switch {
		case eventFlags.mine:
			list = deps.Events.Mine
		case eventFlags.unassigned:
			list = deps.Events.Unassigned
		}
		evts, err := list(ctx, id)
		if err != nil {
			return err
		}
		return printRecords(cascade.TitleEvents, eventDatamodel.Headers, evts)
	}),
}

var eventGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one event",
	Args:  exactArgs(1, "an event id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		eventID, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := deps.Events.Find(ctx, id, eventID)
		if err != nil {
			return err
		}
		return printRecord(cascade.TitleEvents, eventDatamodel.Headers, e)
	}),
}

var eventUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an event (support for own events, accounting)",
	Args:  exactArgs(1, "an event id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		eventID, err := parseID(args[0])
		if err != nil {
			return err
		}
		dto := event.UpdateEventDTO{
			Name:     optional(eventFlags.name),
			Location: optional(eventFlags.location),
			Notes:    optional(eventFlags.notes),
		}
		if dto.StartDate, err = parseDate("start", eventFlags.start); err != nil {
			return err
		}
		if dto.EndDate, err = parseDate("end", eventFlags.end); err != nil {
			return err
		}
		if eventFlags.newCount >= 0 {
			dto.Attendees = &eventFlags.newCount
		}
		if eventFlags.support != 0 {
			dto.SupportContactID = &eventFlags.support
		}

		if err := deps.Events.Update(ctx, id, crud.ByID(eventID), dto); err != nil {
			return err
		}
		fmt.Println("Event updated.")
		return nil
	}),
}

var eventDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Args:  exactArgs(1, "an event id"),
	RunE: withIdentity(func(ctx context.Context, deps *app.Dependencies, id auth.Identity, args []string) error {
		eventID, err := parseID(args[0])
		if err != nil {
			return err
		}
		groups, err := deps.Events.PreviewDelete(ctx, id, crud.ByID(eventID))
		if err != nil {
			return err
		}
		ok, err := confirmDelete(os.Stdout, groups, eventFlags.yes)
		if err != nil || !ok {
			return err
		}
		if err := deps.Events.Delete(ctx, id, crud.ByID(eventID)); err != nil {
			return err
		}
		fmt.Println("Event deleted.")
		return nil
	}),
}

// parseDate reads a local wall clock time; an unset flag gives nil.
func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, internal.NewValidationFieldError(flag, fmt.Sprintf("%q does not match %q", value, dateLayout), internal.ErrCodeInvalidDate)
	}
	return &t, nil
}

func init() {
	eventCreateCmd.Flags().Int64Var(&eventFlags.contractID, "contract", 0, "signed contract id")
	eventCreateCmd.Flags().StringVar(&eventFlags.name, "name", "", "event name")
	eventCreateCmd.Flags().StringVar(&eventFlags.start, "start", "", "start, "+dateLayout)
	eventCreateCmd.Flags().StringVar(&eventFlags.end, "end", "", "end, "+dateLayout)
	eventCreateCmd.Flags().StringVar(&eventFlags.location, "location", "", "venue")
	eventCreateCmd.Flags().IntVar(&eventFlags.attendees, "attendees", 0, "expected attendees")
	eventCreateCmd.Flags().StringVar(&eventFlags.notes, "notes", "", "free notes")
	eventCreateCmd.Flags().Int64Var(&eventFlags.support, "support", 0, "support contact user id")

	eventListCmd.Flags().BoolVar(&eventFlags.mine, "mine", false, "only the events you support")
	eventListCmd.Flags().BoolVar(&eventFlags.unassigned, "unassigned", false, "only events without support contact")
	eventListCmd.MarkFlagsMutuallyExclusive("mine", "unassigned")

	eventUpdateCmd.Flags().StringVar(&eventFlags.name, "name", "", "new name")
	eventUpdateCmd.Flags().StringVar(&eventFlags.start, "start", "", "new start, "+dateLayout)
	eventUpdateCmd.Flags().StringVar(&eventFlags.end, "end", "", "new end, "+dateLayout)
	eventUpdateCmd.Flags().StringVar(&eventFlags.location, "location", "", "new venue")
	eventUpdateCmd.Flags().IntVar(&eventFlags.newCount, "attendees", -1, "new attendee count")
	eventUpdateCmd.Flags().StringVar(&eventFlags.notes, "notes", "", "new notes")
	eventUpdateCmd.Flags().Int64Var(&eventFlags.support, "support", 0, "assign a support contact (accounting)")

	eventDeleteCmd.Flags().BoolVarP(&eventFlags.yes, "yes", "y", false, "skip the confirmation")

	eventCmd.AddCommand(eventCreateCmd, eventListCmd, eventGetCmd, eventUpdateCmd, eventDeleteCmd)
}
