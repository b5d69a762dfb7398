package filetype

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	isoLayout      = "2006-01-02 15:04:05"
	isoMicroLayout = "2006-01-02 15:04:05.000000"
)

// ISOFormat formats t in UTC as "YYYY-MM-DD HH:MM:SS", with a six digit
// fraction only when t has sub-second microseconds.
func ISOFormat(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(isoLayout)
	}
	return t.Format(isoMicroLayout)
}

// MTime returns the modification time of a file, following symlinks, as an
// ISO time stamp or as whole seconds since the epoch. Directories and missing
// locations yield "".
func MTime(location string, iso bool) string {
	info, err := os.Stat(location)
	if err != nil || info.IsDir() {
		return ""
	}
	if iso {
		return ISOFormat(info.ModTime())
	}
	return strconv.FormatInt(info.ModTime().Unix(), 10)
}

// SecsFromEpoch parses a UTC "YYYY-MM-DD HH:MM:SS" time stamp, ignoring any
// fractional part, and returns the seconds since the epoch.
func SecsFromEpoch(stamp string) (int64, error) {
	whole, _, _ := strings.Cut(strings.TrimSpace(stamp), ".")
	t, err := time.ParseInLocation(isoLayout, whole, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse time stamp %q: %w", stamp, err)
	}
	return t.Unix(), nil
}
