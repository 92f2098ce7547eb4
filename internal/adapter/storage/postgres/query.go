package postgres

import (
	"errors"
	"fmt"
	"strings"

	"ricemill-erp/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// conditions accumulates WHERE clauses with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

// add appends a clause whose single %d verb receives the argument position.
func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

// between restricts column to the inclusive range.
func (c *conditions) between(column string, r domain.DateRange) {
	if r.Start != nil {
		c.add(column+" >= $%d", *r.Start)
	}
	if r.End != nil {
		c.add(column+" <= $%d", *r.End)
	}
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// next returns the position for an argument appended after the conditions.
func (c *conditions) next() int {
	return len(c.args) + 1
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
