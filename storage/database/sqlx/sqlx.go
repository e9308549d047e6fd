package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

type base struct {
	db core.DB
}

func (repo base) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

// inTx runs fn inside the given executor, or inside a new transaction when none is given.
func (repo base) inTx(ctx context.Context, svcExec []core.DBExecutor, fn func(exec core.DBExecutor) error) error {
	if len(svcExec) > 0 {
		return fn(svcExec[0])
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// trapNoRowsErr maps the "no rows" error to notFound
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// orderBy builds an ORDER BY clause, skipping fields that are not in `columns`.
func orderBy(ordering []core.DBOrdering, columns string, fallback string) string {
	allowed := make(map[string]bool)
	for _, col := range strings.Split(columns, ",") {
		allowed[strings.TrimSpace(col)] = true
	}

	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if allowed[ord.Field] {
			orderList = append(orderList, ord.String())
		}
	}
	if len(orderList) == 0 {
		orderList = append(orderList, fallback)
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// syncSequence moves a postgres serial sequence past rows inserted with an explicit ID.
func syncSequence(ctx context.Context, exec core.DBExecutor, table, column string) error {
	if exec.DriverName() != core.EnginePostgres {
		return nil
	}
	q := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', '%s'), (SELECT MAX(%s) FROM %s))",
		table, column, column, table)
	_, err := exec.ExecContext(ctx, q)
	return errors.Wrap(err, "syncing sequence")
}
