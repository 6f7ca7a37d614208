package attendees

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"wedding-attendees/internal/models"
)

// RawRecord is one row as decoded from the proxy's JSON envelope
type RawRecord map[string]any

// Normalize converts raw rows into AttendeeRecords. It never fails:
// missing or malformed fields fall back to their zero values.
func Normalize(raw []RawRecord) []models.AttendeeRecord {
	records := make([]models.AttendeeRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, NormalizeOne(r))
	}
	return records
}

// NormalizeOne converts a single raw row
func NormalizeOne(r RawRecord) models.AttendeeRecord {
	rec := models.AttendeeRecord{
		GuestName:    strings.TrimSpace(r.str("guest_name", "guestName", "name")),
		GuestSide:    ParseSide(r.str("guest_side", "guestSide", "side")),
		Attending:    ParseAttendance(r.str("attendance", "attending")),
		MealChoice:   ParseMeal(r.str("meal_attendance", "meal_choice", "mealChoice", "meal")),
		GuestCount:   r.integer("guest_count", "guestCount"),
		PhoneNumber:  strings.TrimSpace(r.str("phone_number", "phoneNumber", "phone")),
		ConsentGiven: r.boolean("consent_personal_info", "consentGiven", "consent"),
		PageID:       r.str("page_id", "pageId"),
		CreatedAt:    r.timestamp("created_at", "createdAt"),
	}

	if rec.GuestCount < 0 {
		rec.GuestCount = 0
	}
	// an attending party always includes the respondent
	if rec.Attending == models.AnswerYes && rec.GuestCount < 1 {
		rec.GuestCount = 1
	}
	return rec
}

// ParseSide maps the side labels used by the invitation forms
func ParseSide(s string) models.Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "신랑측", "신랑", "groom", "groom_side":
		return models.SideGroom
	case "신부측", "신부", "bride", "bride_side":
		return models.SideBride
	}
	return models.SideUnknown
}

// ParseAttendance maps attendance labels to an Answer
func ParseAttendance(s string) models.Answer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "참석", "yes", "y", "true", "attending", "attend":
		return models.AnswerYes
	case "불참", "불참석", "no", "n", "false", "not_attending", "absent":
		return models.AnswerNo
	}
	return models.AnswerUnknown
}

// ParseMeal maps meal labels to an Answer
func ParseMeal(s string) models.Answer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "예", "네", "식사", "참석", "yes", "y", "true":
		return models.AnswerYes
	case "아니오", "아니요", "불참", "no", "n", "false":
		return models.AnswerNo
	}
	return models.AnswerUnknown
}

func (r RawRecord) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r RawRecord) str(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}

func (r RawRecord) integer(keys ...string) int {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return 0
		}
		return int(t)
	case int:
		return toInt(int64(t))
	case int64:
		return toInt(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0
		}
		return toInt(n)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return toInt(n)
	}
	return 0
}

// toInt treats values outside the int32 range as malformed
func toInt(n int64) int {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0
	}
	return int(n)
}

func (r RawRecord) boolean(keys ...string) bool {
	v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "y", "yes", "1", "동의", "예":
			return true
		}
	}
	return false
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (r RawRecord) timestamp(keys ...string) time.Time {
	v, ok := r.lookup(keys...)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return time.Time{}
		}
		return unixTime(int64(t))
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return unixTime(n)
		}
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return unixTime(n)
		}
	}
	return time.Time{}
}

// unixSecondsLimit separates epoch seconds from epoch milliseconds: 1e11
// seconds is the year 5138, 1e11 milliseconds is March 1973.
const unixSecondsLimit = 100_000_000_000

// unixTime reads n as epoch seconds or epoch milliseconds by magnitude
func unixTime(n int64) time.Time {
	if n > -unixSecondsLimit && n < unixSecondsLimit {
		return time.Unix(n, 0).UTC()
	}
	return time.UnixMilli(n).UTC()
}
