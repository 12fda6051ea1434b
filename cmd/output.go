package cmd

import (
	"os"

	"github.com/frahmantamala/epic-crm/internal/cascade"
)

func printRecords[T any, P interface {
	*T
	cascade.Record
}](title string, headers []string, records []P) error {
	return cascade.Render(os.Stdout, []cascade.Group{cascade.NewGroup[T, P](title, headers, records)})
}

func printRecord[T any, P interface {
	*T
	cascade.Record
}](title string, headers []string, record P) error {
	return printRecords[T, P](title, headers, []P{record})
}
