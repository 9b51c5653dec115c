package qbe

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// schemaCache is shared by every Scope call; GORM schemas are immutable once parsed.
var schemaCache sync.Map

// likeEscaper escapes LIKE wildcards so probe values only ever match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes %, _ and the escape character itself for use in a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Scope returns a GORM scope filtering by the probe under the given matcher.
// probe must be a struct or pointer to struct GORM can parse.
func Scope(probe any, matcher Matcher) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		exprs, err := Predicates(db, probe, matcher)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		switch {
		case len(exprs) == 0:
			return db
		case len(exprs) == 1:
			// a lone OR condition would be OR-ed with any other WHERE clause
			return db.Where(exprs[0])
		case matcher.MatchMode() == Any:
			return db.Where(clause.Or(exprs...))
		}
		return db.Where(clause.And(exprs...))
	}
}

// Predicates builds one expression per probe property that takes part in matching.
func Predicates(db *gorm.DB, probe any, matcher Matcher) ([]clause.Expression, error) {
	s, err := schema.Parse(probe, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("qbe: failed to parse probe: %w", err)
	}

	rv := reflect.Indirect(reflect.ValueOf(probe))
	ctx := db.Statement.Context

	exprs := make([]clause.Expression, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" || !f.Readable || matcher.IsIgnoredPath(f.Name) {
			continue
		}

		col := clause.Column{Table: clause.CurrentTable, Name: f.DBName}
		value, zero := f.ValueOf(ctx, rv)
		if zero {
			// an unset key never identifies a row
			if f.PrimaryKey || matcher.NullHandler() == Ignore {
				continue
			}
			exprs = append(exprs, clause.Expr{SQL: "? IS NULL", Vars: []any{col}})
			continue
		}

		if str, ok := stringValue(value); ok {
			exprs = append(exprs, stringPredicate(col, str,
				matcher.stringMatcherFor(f.Name), matcher.ignoreCaseFor(f.Name)))
			continue
		}
		exprs = append(exprs, clause.Eq{Column: col, Value: value})
	}
	return exprs, nil
}

func stringPredicate(col clause.Column, value string, sm StringMatcher, ignoreCase bool) clause.Expression {
	var pattern string
	switch sm {
	case Starting:
		pattern = EscapeLike(value) + "%"
	case Ending:
		pattern = "%" + EscapeLike(value)
	case Containing:
		pattern = "%" + EscapeLike(value) + "%"
	default:
		if ignoreCase {
			return clause.Expr{SQL: "LOWER(?) = LOWER(?)", Vars: []any{col, value}}
		}
		return clause.Eq{Column: col, Value: value}
	}

	if ignoreCase {
		return clause.Expr{SQL: `LOWER(?) LIKE LOWER(?) ESCAPE '\'`, Vars: []any{col, pattern}}
	}
	return clause.Expr{SQL: `? LIKE ? ESCAPE '\'`, Vars: []any{col, pattern}}
}

// stringValue unwraps string and *string (including named string types).
func stringValue(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}
