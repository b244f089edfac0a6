package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
)

// reporter writes timestamped diagnostic lines. Violations and load errors
// go through it so reports from long running sessions can be correlated.
type reporter struct {
	strf *strftime.Strftime
	out  io.Writer
}

func newReporter(format string) (*reporter, error) {
	strf, err := strftime.New(format)
	if err != nil {
		return nil, fmt.Errorf("invalid time format %q", format)
	}
	return &reporter{strf: strf, out: os.Stderr}, nil
}

func (rpt *reporter) printf(msg string, args ...any) {
	fmt.Fprintf(rpt.out, "[%s] %s\n", rpt.strf.FormatString(time.Now()), fmt.Sprintf(msg, args...))
}
