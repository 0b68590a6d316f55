// Package weightlog defines the weight record stored in the spreadsheet.
package weightlog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kan/sheetorm/fitbit"
)

// Entry is one row of the Weight sheet.
type Entry struct {
	Date   string  `sheet:"0"`
	Time   string  `sheet:"1"`
	Weight float64 `sheet:"2,name=Weight (kg)"`
	BMI    float64 `sheet:"3"`
	Fat    float64 `sheet:"4,name=Body Fat (%)"`
	Source string  `sheet:"5"`
	LogID  uint64  `sheet:"6,name=Log ID"`
}

func (Entry) SheetName() string { return "Weight" }

func FromFitbit(ws []fitbit.Weight) []Entry {
	entries := make([]Entry, 0, len(ws))
	for _, w := range ws {
		entries = append(entries, Entry{
			Date:   w.Date,
			Time:   w.Time,
			Weight: w.Weight,
			BMI:    w.BMI,
			Fat:    w.Fat,
			Source: w.Source,
			LogID:  w.LogID,
		})
	}
	return entries
}

var (
	dayLayouts   = []string{"2006-01-02", "2006/01/02", "2006-1-2", "2006/1/2", "1/2/2006"}
	clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}
)

// dayKey renders a date cell as 2006-01-02 whatever display format the sheet used.
func dayKey(s string) string {
	return normalize(s, dayLayouts, "2006-01-02")
}

// clockKey renders a time cell as zero-padded 15:04:05.
func clockKey(s string) string {
	return normalize(s, clockLayouts, "15:04:05")
}

func normalize(s string, layouts []string, out string) string {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(out)
		}
	}
	return s
}

// Normalized returns e with Date and Time in their canonical form.
func (e Entry) Normalized() Entry {
	e.Date = dayKey(e.Date)
	e.Time = clockKey(e.Time)
	return e
}

func before(a, b Entry) bool {
	if da, db := dayKey(a.Date), dayKey(b.Date); da != db {
		return da < db
	}
	return clockKey(a.Time) < clockKey(b.Time)
}

// Find returns the latest entry recorded on the day of dt.
func Find(entries []Entry, dt time.Time) (Entry, bool) {
	day := dt.Format("2006-01-02")

	var found []Entry
	for _, e := range entries {
		if dayKey(e.Date) == day {
			found = append(found, e)
		}
	}
	if len(found) == 0 {
		return Entry{}, false
	}

	sort.SliceStable(found, func(i, j int) bool { return before(found[i], found[j]) })
	return found[len(found)-1], true
}

// Missing returns the incoming entries whose log id is not in existing. Entries
// without a log id, typed in by hand, are never treated as duplicates.
func Missing(existing, incoming []Entry) []Entry {
	seen := make(map[uint64]bool, len(existing))
	for _, e := range existing {
		if e.LogID != 0 {
			seen[e.LogID] = true
		}
	}

	var missing []Entry
	for _, e := range incoming {
		if e.LogID != 0 {
			if seen[e.LogID] {
				continue
			}
			seen[e.LogID] = true
		}
		missing = append(missing, e)
	}
	return missing
}

// Tidy drops entries with a repeated log id and orders the rest by date and time.
func Tidy(entries []Entry) []Entry {
	tidy := Missing(nil, entries)
	for i := range tidy {
		tidy[i] = tidy[i].Normalized()
	}
	sort.SliceStable(tidy, func(i, j int) bool { return before(tidy[i], tidy[j]) })
	return tidy
}

func Summary(e Entry) string {
	return fmt.Sprintf("Weight: %4.1fkg (BMI: %4.2f) Body fat: %4.2f%% via Fitbit\n", e.Weight, e.BMI, e.Fat)
}
