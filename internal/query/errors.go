package query

import "fmt"

// BadDateError reports a date string in neither YYYY-MM-DD nor YYYYMMDD
// form.
type BadDateError struct{ Value string }

func (e *BadDateError) Error() string { return fmt.Sprintf("bad date %q", e.Value) }

// BadTimeError reports a time string not in HH:MM form.
type BadTimeError struct{ Value string }

func (e *BadTimeError) Error() string { return fmt.Sprintf("bad time %q", e.Value) }
