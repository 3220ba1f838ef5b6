package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addUserFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "user", "", "User ID")
}

func addDateFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "date", "today", "Study date (YYYY-MM-DD, today or yesterday)")
}

// resolveDate parses a --date value into a study date in loc.
func resolveDate(value string, loc *time.Location, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return domain.StudyDateOf(now, loc), nil
	case "yesterday":
		return domain.StudyDateOf(now.In(loc).AddDate(0, 0, -1), loc), nil
	}
	d, err := time.ParseInLocation(domain.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return d, nil
}

// openInput returns the named file, or stdin when no file or "-" is given.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

func parseStatus(s string) (domain.StudyTimeStatus, error) {
	st, ok := domain.ParseStudyTimeStatus(strings.ToLower(s))
	if !ok {
		names := make([]string, len(domain.AllStudyTimeStatuses))
		for i, v := range domain.AllStudyTimeStatuses {
			names[i] = string(v)
		}
		return "", fmt.Errorf("unknown status %q (valid: %s)", s, strings.Join(names, ", "))
	}
	return st, nil
}
