// Package repository runs the SQL for companies and jobs.
//
// Repositories compose statements from fixed SQL and the dynamic clauses
// built by package query, run them on a database.Executor and shape the
// rows into model types. Storage failures that carry domain meaning are
// translated into errs.NotFoundError and errs.ConflictError; everything else
// is returned wrapped.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/jobly/internal/query"
)

// where renders a built predicate as a WHERE clause, or nothing.
func where(stmt query.Statement) string {
	if stmt.Empty() {
		return ""
	}
	return " WHERE " + stmt.SQL
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
