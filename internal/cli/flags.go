package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// timeFlag is an optional date flag accepting YYYY-MM-DD or RFC3339.
// It stays nil unless the flag is given.
type timeFlag struct {
	t *time.Time
}

var _ pflag.Value = (*timeFlag)(nil)

func (f *timeFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format(time.RFC3339)
}

func (f *timeFlag) Set(s string) error {
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	f.t = &t
	return nil
}

func (f *timeFlag) Type() string { return "date" }

func (f *timeFlag) Value() *time.Time { return f.t }

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return t.UTC(), nil
}

// timeVar registers a timeFlag on fs and returns it.
func timeVar(fs *pflag.FlagSet, name, usage string) *timeFlag {
	f := &timeFlag{}
	fs.Var(f, name, usage)
	return f
}
