package auth

import (
	"fmt"

	"github.com/frahmantamala/epic-crm/internal"
)

type Record interface {
	RecordID() int64
}

// CheckOwnership verifies that every record belongs to the caller, failing
// on the first one that does not. owner returns nil for unassigned records,
// which nobody owns.
func CheckOwnership[R Record](caller Caller, kind string, records []R, owner func(R) *int64) error {
	for _, rec := range records {
		ownerID := owner(rec)
		if ownerID != nil && *ownerID == caller.ID {
			continue
		}
		return internal.NewForbiddenError(
			fmt.Sprintf("Permission denied. %s %d is not assigned to you", kind, rec.RecordID()),
			internal.ErrCodeNotOwner,
		).WithDetails(internal.RecordRef{Kind: kind, ID: rec.RecordID(), OwnerID: ownerID})
	}
	return nil
}
