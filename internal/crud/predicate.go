package crud

import "gorm.io/gorm"

// Predicate narrows a query. It is applied as a gorm scope so the same
// value filters reads, bulk updates and bulk deletes.
type Predicate func(*gorm.DB) *gorm.DB

func Where(query string, args ...any) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func ByID(id int64) Predicate {
	return Where("id = ?", id)
}

// In matches rows whose column is one of ids. An empty id list matches
// nothing instead of everything.
func In(column string, ids []int64) Predicate {
	if len(ids) == 0 {
		return Where("1 = 0")
	}
	return Where(column+" IN ?", ids)
}

func IsNull(column string) Predicate {
	return Where(column + " IS NULL")
}

func And(preds ...Predicate) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range preds {
			if p != nil {
				db = p(db)
			}
		}
		return db
	}
}
