package rfc9111

import (
	"testing"
	"time"
)

func TestDeltaSeconds(t *testing.T) {
	if d, err := deltaSeconds("5"); err != nil || d != 5*time.Second {
		t.Fatalf("Delta seconds is %v (%v)", d, err)
	}
}

func TestDeltaSecondsOverflow(t *testing.T) {
	d, err := deltaSeconds("99999999999999999999999")
	if err != nil {
		t.Fatalf("Error parsing delta seconds %+v", err)
	}
	if d != 2147483647*time.Second {
		t.Fatalf("Delta seconds is %v", d)
	}
}

func TestDeltaSecondsInvalid(t *testing.T) {
	if _, err := deltaSeconds("-1"); err == nil {
		t.Fatal("Negative delta seconds should not parse")
	}
}

func TestHttpDate(t *testing.T) {
	date, err := HttpDate("Sun, 06 Nov 1994 08:49:37 GMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
	if !date.Equal(time.Date(1994, 11, 6, 8, 49, 37, 0, time.UTC)) {
		t.Fatalf("Date is %v", date)
	}
}

func TestHttpDateRFC850(t *testing.T) {
	_, err := HttpDate("Thursday, 18-Aug-50 02:01:18 GMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
}

func TestHttpDateAsctime(t *testing.T) {
	date, err := HttpDate("Sun Nov  6 08:49:37 1994")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
	if date.Day() != 6 || date.Hour() != 8 {
		t.Fatalf("Date is %v", date)
	}
}

func TestHttpDateTZCase(t *testing.T) {
	_, err := HttpDate("Thu, 18 Aug 2050 02:01:18 gMT")
	if err != nil {
		t.Fatalf("Error parsing date %+v", err)
	}
}

func TestHttpDateNotGMT(t *testing.T) {
	if _, err := HttpDate("Thu, 18 Aug 2050 02:01:18 CET"); err == nil {
		t.Fatal("Non-GMT date should not parse")
	}
}

func TestToHttpDate(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	s := ToHttpDate(time.Date(1994, 11, 6, 9, 49, 37, 0, cet))
	if s != "Sun, 06 Nov 1994 08:49:37 GMT" {
		t.Fatalf("Date is %s", s)
	}
}
