package rfc9111

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// §  1.2.2. Delta Seconds
// §
// §  The delta-seconds rule specifies a non-negative integer, representing time
// §  in seconds.
// §
// §      delta-seconds  = 1*DIGIT
// §
// §  A recipient parsing a delta-seconds value and converting it to binary form
// §  ought to use an arithmetic type of at least 31 bits of non-negative integer
// §  range. If a cache receives a delta-seconds value greater than the greatest
// §  integer it can represent, or if any of its subsequent calculations overflows,
// §  the cache MUST consider the value to be 2147483648 (231) or the greatest
// §  positive integer it can conveniently represent.
func deltaSeconds(secondsStr string) (time.Duration, error) {
	seconds, err := strconv.ParseUint(secondsStr, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt32 * time.Second, nil
		}
		return 0, err
	}
	if seconds > math.MaxInt32 {
		seconds = math.MaxInt32
	}
	return time.Second * time.Duration(seconds), nil
}

// This section is from the HTTP specification (RFC9110), not the cache specification
//
// §  5.6.7.  Date/Time Formats
// §
// §       HTTP-date    = IMF-fixdate / obs-date
// §
// §     An example of the preferred format is
// §
// §       Sun, 06 Nov 1994 08:49:37 GMT    ; IMF-fixdate
// §
// §     Examples of the two obsolete formats are
// §
// §       Sunday, 06-Nov-94 08:49:37 GMT   ; obsolete RFC 850 format
// §       Sun Nov  6 08:49:37 1994         ; ANSI C's asctime() format
// §
// §     A recipient that parses a timestamp value in an HTTP field MUST
// §     accept all three HTTP-date formats.  When a sender generates a field
// §     that contains one or more timestamps defined as HTTP-date, the sender
// §     MUST generate those timestamps in the IMF-fixdate format.
func HttpDate(dateStr string) (time.Time, error) {
	str := normalizeDateStr(dateStr)
	date, err := imfDate(str)
	if err == nil {
		return date, nil
	}
	// try the obsolete formats before giving up
	if date, obsErr := time.Parse(time.RFC850, str); obsErr == nil {
		return date.UTC(), nil
	}
	if date, obsErr := time.Parse(time.ANSIC, str); obsErr == nil {
		return date.UTC(), nil
	}
	return time.Time{}, err
}

// ToHttpDate formats a time in the IMF-fixdate format.
func ToHttpDate(t time.Time) string {
	return t.UTC().Format(imfDateLayout)
}

// §     Preferred format:
// §
// §       IMF-fixdate  = day-name "," SP date1 SP time-of-day SP GMT
// §       ; fixed length/zone/capitalization subset of the format
// §       ; see Section 3.3 of [RFC5322]
const imfDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// §     An HTTP-date value represents time as an instance of Coordinated
// §     Universal Time (UTC).  The first two formats indicate UTC by the
// §     three-letter abbreviation for Greenwich Mean Time, "GMT", a
// §     predecessor of the UTC name; values in the asctime format are assumed
// §     to be in UTC.
func imfDate(str string) (time.Time, error) {
	if !strings.HasSuffix(str, " GMT") {
		return time.Time{}, fmt.Errorf("date %q is not in GMT", str)
	}
	date, err := time.Parse(imfDateLayout, str)
	return date.UTC(), err
}

// §     HTTP-date is case sensitive.  Note that Section 4.2 of [CACHING]
// §     relaxes this for cache recipients.
//
// Day and month names are title-cased, the zone upper-cased.
func normalizeDateStr(dateStr string) string {
	fields := strings.Fields(dateStr)
	for i, field := range fields {
		if strings.EqualFold(field, "gmt") {
			fields[i] = "GMT"
			continue
		}
		fields[i] = titleCase(field)
	}
	return strings.Join(fields, " ")
}

func titleCase(field string) string {
	lower := strings.ToLower(field)
	for i, r := range lower {
		if r >= 'a' && r <= 'z' {
			return lower[:i] + strings.ToUpper(string(r)) + lower[i+1:]
		}
	}
	return lower
}
