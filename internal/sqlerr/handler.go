package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/go-cats/internal/errs"
)

// constraintColumnRe pulls the column out of "<table>_<column>_key".
var constraintColumnRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// actionSuffix is the second half of the generated error code.
var actionSuffix = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
}

// ConvertPgError converts a raw *pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError turns err into the *errs.HTTPError the client sees.
//
// HTTP errors pass through untouched. Postgres constraint failures become
// 400s with a generated code such as CAT_INVALID, connection pressure and
// cancelled or timed-out queries become 503, a missing row is a 404 and
// everything else is an opaque 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPostgres(ConvertPgError(pgErr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NewServiceUnavailableError("The request timed out")
	}

	return errs.NewInternalServerError()
}

func fromPostgres(e *Error) error {
	if e.Code == TooManyConnections || e.Code == QueryCanceled {
		return errs.NewServiceUnavailableError("The service is busy, please retry")
	}

	suffix, ok := actionSuffix[e.Code]
	if !ok {
		return errs.NewInternalServerError()
	}
	code := codePrefix(e.TableName) + "_" + suffix
	entity := entityLabel(e.TableName, e.ColumnName)
	column := titleCase(e.ColumnName)

	switch e.Code {
	case ForeignKeyViolation:
		return errs.NewBadRequestError(fmt.Sprintf("The referenced %s does not exist", entity), false, &code, nil, nil)

	case UniqueViolation:
		what := "identifier"
		if col := columnFromConstraint(e.ConstraintName); col != "" {
			what = titleCase(col)
		}
		return errs.NewBadRequestError(fmt.Sprintf("A %s with this %s already exists", entity, what), true, &code, nil, nil)

	case NotNullViolation:
		if column == "" {
			column = "field"
		}
		fields := []errs.FieldError{{Field: strings.ToLower(e.ColumnName), Error: "is required"}}
		return errs.NewBadRequestError(fmt.Sprintf("The %s is required", column), true, &code, fields, nil)

	default: // CheckViolation
		msg := "One or more values do not meet required conditions"
		if column != "" {
			msg = fmt.Sprintf("The %s value does not meet required conditions", column)
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)
	}
}

// codePrefix is the upper-cased singular table name, or RECORD.
func codePrefix(table string) string {
	if table == "" {
		return "RECORD"
	}
	return strings.ToUpper(singular(table))
}

// entityLabel prefers a "<x>_id" column, then the singular table name.
func entityLabel(table, column string) string {
	if lower := strings.ToLower(column); strings.HasSuffix(lower, "_id") {
		return titleCase(strings.TrimSuffix(lower, "_id"))
	}
	if table != "" {
		return titleCase(singular(table))
	}
	return "record"
}

func singular(name string) string {
	if len(name) > 1 && (strings.HasSuffix(name, "s") || strings.HasSuffix(name, "S")) {
		return name[:len(name)-1]
	}
	return name
}

// titleCase: "first_name" -> "First Name".
func titleCase(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// columnFromConstraint understands "unique_<table>_<column>" and
// "<table>_<column>_key".
func columnFromConstraint(name string) string {
	if rest, ok := strings.CutPrefix(name, "unique_"); ok {
		if i := strings.LastIndex(rest, "_"); i >= 0 {
			return rest[i+1:]
		}
	}
	if m := constraintColumnRe.FindStringSubmatch(name); len(m) > 1 {
		return m[1]
	}
	return ""
}
