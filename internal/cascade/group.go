package cascade

import "context"

const (
	TitleUsers     = "USERS"
	TitleClients   = "CLIENTS"
	TitleContracts = "CONTRACTS"
	TitleEvents    = "EVENTS"
)

// Record is a row that can be listed in a cascade preview.
type Record interface {
	RecordID() int64
	Row() []string
}

// Group is one typed slice of the records a deletion would remove.
type Group struct {
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Members []Record `json:"members"`
}

func (g Group) Len() int {
	return len(g.Members)
}

func (g Group) IDs() []int64 {
	ids := make([]int64, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.RecordID()
	}
	return ids
}

// Hook is implemented by every entity service: given the records about to
// be deleted, report everything that goes with them.
type Hook[T any] interface {
	ResolveCascade(ctx context.Context, records []*T) ([]Group, error)
}

// NewGroup wraps a single record slice, e.g. a listing, as a group.
func NewGroup[T any, P interface {
	*T
	Record
}](title string, headers []string, records []P) Group {
	return newGroup[T, P](title, headers, records)
}

// newGroup drops nil members and keeps the first occurrence of each id.
func newGroup[T any, P interface {
	*T
	Record
}](title string, headers []string, sets ...[]P) Group {
	g := Group{Title: title, Headers: headers, Members: make([]Record, 0)}
	seen := make(map[int64]struct{})
	for _, set := range sets {
		for _, rec := range set {
			if rec == nil {
				continue
			}
			if _, dup := seen[rec.RecordID()]; dup {
				continue
			}
			seen[rec.RecordID()] = struct{}{}
			g.Members = append(g.Members, rec)
		}
	}
	return g
}

func idsOf[T any, P interface {
	*T
	Record
}](recs []P) []int64 {
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		if rec != nil {
			ids = append(ids, rec.RecordID())
		}
	}
	return ids
}
