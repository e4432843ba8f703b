// Package sqlstore implements the farmer and yield repositories on top of
// database/sql. The SQL is written once with "?" placeholders; a Dialect
// adapts it to each driver and translates driver errors.
package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect describes what differs between the supported drivers.
type Dialect struct {
	Name string

	// Rebind rewrites "?" placeholders for the driver.
	Rebind func(query string) string

	// ReturningID makes inserts read the new id with RETURNING instead of LastInsertId.
	ReturningID bool

	// Translate maps driver errors onto the db package sentinels.
	Translate func(err error) error
}

// KeepQuestion leaves "?" placeholders untouched (sqlite, mysql).
func KeepQuestion(query string) string {
	return query
}

// DollarNumbered rewrites "?" placeholders to $1, $2, ... (postgres).
// Queries in this package never contain a literal question mark.
func DollarNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) rebind(query string) string {
	if d.Rebind == nil {
		return query
	}
	return d.Rebind(query)
}

func (d Dialect) translate(err error) error {
	if err == nil || d.Translate == nil {
		return err
	}
	return d.Translate(err)
}

// boolToInt stores flags as 0/1 integers on every backend.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
