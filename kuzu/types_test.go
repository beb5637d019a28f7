package kuzu

import (
	"math/big"
	"testing"
	"time"
)

func TestDateFromDays(t *testing.T) {
	tests := []struct {
		days int32
		want time.Time
	}{
		{0, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{1, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)},
		{19723, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{-1, time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := dateFromDays(tt.days); !got.Equal(tt.want) {
			t.Errorf("dateFromDays(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestDaysFromDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int32
	}{
		{time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(1970, 1, 2, 12, 30, 0, 0, time.UTC), 1},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 19723},
		{time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC), -1},
	}

	for _, tt := range tests {
		if got := daysFromDate(tt.in); got != tt.want {
			t.Errorf("daysFromDate(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimestampConversions(t *testing.T) {
	ref := time.Date(2024, 3, 15, 10, 30, 5, 250_000_000, time.UTC)
	micros := microsFromTime(ref)
	if got := timeFromMicros(micros); !got.Equal(ref) {
		t.Errorf("micros round trip = %v, want %v", got, ref)
	}

	if got := timeFromSeconds(0); !got.Equal(time.Unix(0, 0)) {
		t.Errorf("timeFromSeconds(0) = %v", got)
	}
	if got := timeFromMillis(1500); !got.Equal(time.Unix(1, 500_000_000)) {
		t.Errorf("timeFromMillis(1500) = %v", got)
	}
	if got := timeFromNanos(42); !got.Equal(time.Unix(0, 42)) {
		t.Errorf("timeFromNanos(42) = %v", got)
	}

	// Pre-epoch timestamps must survive the split into seconds and nanos.
	old := time.Date(1960, 6, 1, 12, 0, 0, 500_000_000, time.UTC)
	if got := timeFromMicros(microsFromTime(old)); !got.Equal(old) {
		t.Errorf("pre-epoch round trip = %v, want %v", got, old)
	}
}

func TestIntervalConversions(t *testing.T) {
	if got := durationFromInterval(0, 1, 0); got != 24*time.Hour {
		t.Errorf("one day = %v", got)
	}
	if got := durationFromInterval(1, 0, 0); got != 30*24*time.Hour {
		t.Errorf("one month = %v", got)
	}
	if got := durationFromInterval(0, 0, 1_500_000); got != 1500*time.Millisecond {
		t.Errorf("micros = %v", got)
	}

	days, micros := intervalFromDuration(25*time.Hour + 30*time.Minute)
	if days != 1 || micros != int64(90*time.Minute/time.Microsecond) {
		t.Errorf("intervalFromDuration = %d days, %d micros", days, micros)
	}
}

func TestInt128ToBigInt(t *testing.T) {
	tests := []struct {
		name string
		high int64
		low  uint64
		want *big.Int
	}{
		{"zero", 0, 0, big.NewInt(0)},
		{"small positive", 0, 42, big.NewInt(42)},
		{"minus one", -1, ^uint64(0), big.NewInt(-1)},
		{"two to the sixty four", 1, 0, new(big.Int).Lsh(big.NewInt(1), 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := int128ToBigInt(tt.high, tt.low); got.Cmp(tt.want) != 0 {
				t.Errorf("int128ToBigInt(%d, %d) = %s, want %s", tt.high, tt.low, got, tt.want)
			}
		})
	}
}

func TestDataTypeIDString(t *testing.T) {
	if got := TypeInt64.String(); got != "INT64" {
		t.Errorf("TypeInt64.String() = %q", got)
	}
	if got := TypeRecursiveRel.String(); got != "RECURSIVE_REL" {
		t.Errorf("TypeRecursiveRel.String() = %q", got)
	}
	if got := DataTypeID(999).String(); got != "UNKNOWN(999)" {
		t.Errorf("unknown id String() = %q", got)
	}
}

func TestInternalIDString(t *testing.T) {
	id := InternalID{TableID: 3, Offset: 17}
	if got := id.String(); got != "3:17" {
		t.Errorf("InternalID.String() = %q", got)
	}
}
