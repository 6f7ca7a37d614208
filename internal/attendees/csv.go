package attendees

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"wedding-attendees/internal/models"
)

// utf8BOM makes spreadsheet tools detect UTF-8 for the Korean headers
const utf8BOM = "\ufeff"

// CSVTimeLayout is the layout of the 등록일시 column
const CSVTimeLayout = "2006-01-02 15:04:05"

// CSVHeader lists the fixed export columns
var CSVHeader = []string{
	"이름", "구분", "참석여부", "인원", "식사여부", "연락처", "개인정보동의", "페이지ID", "등록일시",
}

// ToCSV serializes records, unpaginated and in order, as a quoted CSV
// document prefixed with a UTF-8 byte order mark. A nil location renders
// timestamps in UTC.
func ToCSV(records []models.AttendeeRecord, loc *time.Location) string {
	var b strings.Builder
	// strings.Builder never returns a write error
	_ = WriteCSV(&b, records, loc)
	return b.String()
}

// WriteCSV streams the same document ToCSV returns
func WriteCSV(w io.Writer, records []models.AttendeeRecord, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	if err := writeRow(bw, CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := writeRow(bw, csvRow(r, loc)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvRow(r models.AttendeeRecord, loc *time.Location) []string {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.In(loc).Format(CSVTimeLayout)
	}
	consent := "미동의"
	if r.ConsentGiven {
		consent = "동의"
	}
	return []string{
		r.GuestName,
		SideLabel(r.GuestSide),
		AttendanceLabel(r.Attending),
		strconv.Itoa(r.GuestCount),
		MealLabel(r.MealChoice),
		r.PhoneNumber,
		consent,
		r.PageID,
		created,
	}
}

func writeRow(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(c, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// SideLabel returns the Korean label for a side, empty when unknown
func SideLabel(s models.Side) string {
	switch s {
	case models.SideGroom:
		return "신랑측"
	case models.SideBride:
		return "신부측"
	}
	return ""
}

// AttendanceLabel returns 참석/불참, empty when unknown
func AttendanceLabel(a models.Answer) string {
	switch a {
	case models.AnswerYes:
		return "참석"
	case models.AnswerNo:
		return "불참"
	}
	return ""
}

// MealLabel returns 예/아니오, empty when unknown
func MealLabel(a models.Answer) string {
	switch a {
	case models.AnswerYes:
		return "예"
	case models.AnswerNo:
		return "아니오"
	}
	return ""
}
