package schema

import (
	"errors"
	"fmt"
	"strings"
)

type Op string

const (
	OpApply   Op = "apply"
	OpRevert  Op = "revert"
	OpInspect Op = "inspect"
	OpDump    Op = "dump"
	OpSplit   Op = "split"
	OpHCL     Op = "hcl"
)

// Error reports the statement that failed. Err is the engine error, untouched.
type Error struct {
	Op    Op
	Table string
	Err   error
}

func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("schema %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var ErrNoTables = errors.New("no user tables found in database")

// IsTableExists reports whether err came from creating a table that is
// already there. Drivers don't share an error type for it, so this matches
// on the sqlite message.
func IsTableExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}
