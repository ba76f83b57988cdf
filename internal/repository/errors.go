package repository

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrNotFound is returned by point lookups that match no row
var ErrNotFound = gorm.ErrRecordNotFound

const uniqueIndexErrNo uint16 = 1062

// DuplicateError reports a unique index violation
type DuplicateError struct {
	Index  string   // Index name, e.g. uniq_affiliate_code
	Fields []string // Request-facing field names covered by the index
	Err    error
}

func (e *DuplicateError) Error() string {
	return "duplicate value for " + strings.Join(e.Fields, ", ")
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// NewDuplicateError builds a DuplicateError for a named unique index
func NewDuplicateError(index string, err error) *DuplicateError {
	return &DuplicateError{Index: index, Fields: []string{fieldForIndex(index)}, Err: err}
}

var indexFields = map[string]string{
	"uniq_affiliate_referral":   "referral_code",
	"uniq_redemption_order_ref": "order_id",
}

// fieldForIndex maps uniq_<table>_<field> onto <field>
func fieldForIndex(index string) string {
	if f, ok := indexFields[index]; ok {
		return f
	}
	parts := strings.SplitN(index, "_", 3)
	if len(parts) == 3 && parts[0] == "uniq" {
		return parts[2]
	}
	return index
}

var duplicateKeyPattern = regexp.MustCompile(`for key '([^']+)'`)

// translate converts driver errors into repository errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == uniqueIndexErrNo {
		index := ""
		if m := duplicateKeyPattern.FindStringSubmatch(me.Message); m != nil {
			index = m[1]
			if i := strings.LastIndex(index, "."); i >= 0 {
				index = index[i+1:] // MySQL 8 prefixes the table name
			}
		}
		return NewDuplicateError(index, err)
	}
	return err
}
