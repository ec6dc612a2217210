// Package db implements the db module, which runs SQL statements against
// SQLite databases.
//
// A statement is either a string or a list whose first element is the SQL
// text and whose remaining elements are the values of its ? parameters.
// Queries return a rank-2 array with one row per result row, with the column
// names as the labels of the last axis.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // enable the "sqlite" SQL driver
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/mods/structured"
)

var logger = logutil.GetLogger("[mods/db] ")

// Module is the db module.
var Module eval.Module = module{}

type module struct{}

func (module) Name() string { return "db" }

func (module) Init(e *eval.Engine) error {
	e.AddGoFns("db", map[string]eval.FunctionDescriptor{
		"open":  eval.NewGoFn("db:open", open, nil),
		"query": eval.NewGoFn("db:query", nil, query),
		"exec":  eval.NewGoFn("db:exec", nil, exec),
		"close": eval.NewGoFn("db:close", closeDB, nil),
	})
	return nil
}

// Conn is an open database connection.
type Conn struct {
	db   *sql.DB
	name string
}

func (*Conn) Kind() vals.Kind  { return vals.InternalKind }
func (*Conn) Dims() dims.Dims  { return dims.Scalar }
func (*Conn) TypeName() string { return "db" }
func (c *Conn) Close() error   { return c.db.Close() }

func (c *Conn) ValueAt(p int) (vals.Value, error) {
	if p != 0 {
		return nil, errs.IndexOutOfBounds{What: "index into db", Index: p, Bound: 1}
	}
	return c, nil
}

func connOf(v vals.Value) (*Conn, error) {
	v, err := vals.Unwrap(v)
	if err != nil {
		return nil, err
	}
	c, ok := v.(*Conn)
	if !ok {
		return nil, errs.IncompatibleType{Message: "expected a db connection, got " + v.Kind().String()}
	}
	return c, nil
}

// db:open name opens a database file. The name ":memory:" opens a private
// in-memory database.
func open(fm *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	name, err := vals.StringOf(a)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: would see its own database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Println("opened database", name)
	c := &Conn{db, name}
	fm.AddClosable(c)
	return c, nil
}

// Splits a statement into its SQL text and parameters.
func statement(v vals.Value) (string, []any, error) {
	l, ok := v.(*vals.List)
	if !ok {
		text, err := vals.StringOf(v)
		return text, nil, err
	}
	if l.Len() == 0 {
		return "", nil, errs.IncompatibleType{Message: "empty statement"}
	}
	text, err := vals.StringOf(l.At(0))
	if err != nil {
		return "", nil, err
	}
	params := make([]any, l.Len()-1)
	for i := range params {
		p, err := structured.ToDocument(l.At(i + 1))
		if err != nil {
			return "", nil, err
		}
		switch p.(type) {
		case []any, map[string]any:
			return "", nil, errs.IncompatibleType{
				Message: fmt.Sprintf("parameter %d of statement must be a scalar or a string", i+1)}
		}
		params[i] = p
	}
	return text, params, nil
}

// c db:exec statement runs a statement and returns the number of affected
// rows.
func exec(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	c, err := connOf(a)
	if err != nil {
		return nil, err
	}
	text, params, err := statement(b)
	if err != nil {
		return nil, err
	}
	res, err := c.db.Exec(text, params...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return vals.Int(n), nil
}

// c db:query statement runs a query and returns its rows.
func query(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	c, err := connOf(a)
	if err != nil {
		return nil, err
	}
	text, params, err := statement(b)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.Query(text, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var elems []vals.Value
	n := 0
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for _, v := range values {
			elems = append(elems, fromSQL(v))
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if elems == nil {
		elems = []vals.Value{}
	}
	table := vals.NewArray(dims.Of(n, len(columns)), elems)
	return vals.WithLabels(table, [][]string{nil, columns}), nil
}

func fromSQL(v any) vals.Value {
	switch v := v.(type) {
	case nil:
		return vals.Nil
	case int64:
		return vals.Int(v)
	case float64:
		return vals.Float(v)
	case bool:
		return vals.FromBool(v)
	case string:
		return vals.FromString(v)
	case []byte:
		return vals.FromString(string(v))
	case time.Time:
		return vals.FromString(v.Format(time.RFC3339))
	}
	return vals.FromString(fmt.Sprint(v))
}

func closeDB(fm *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	c, err := connOf(a)
	if err != nil {
		return nil, err
	}
	return vals.Nil, fm.Release(c)
}
