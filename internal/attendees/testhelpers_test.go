package attendees

import (
	"fmt"
	"time"

	"wedding-attendees/internal/models"
)

var kst = time.FixedZone("KST", 9*60*60)

func rec(name string, side models.Side, attending, meal models.Answer, count int) models.AttendeeRecord {
	return models.AttendeeRecord{
		GuestName:   name,
		GuestSide:   side,
		Attending:   attending,
		MealChoice:  meal,
		GuestCount:  count,
		PhoneNumber: "010-0000-0000",
		PageID:      "page-1",
	}
}

// makeRecords builds n records cycling through sides, answers and meals
func makeRecords(n int) []models.AttendeeRecord {
	sides := []models.Side{models.SideGroom, models.SideBride, models.SideUnknown}
	answers := []models.Answer{models.AnswerYes, models.AnswerNo, models.AnswerUnknown}
	out := make([]models.AttendeeRecord, n)
	for i := range out {
		out[i] = models.AttendeeRecord{
			GuestName:   fmt.Sprintf("Guest %02d", i),
			GuestSide:   sides[i%len(sides)],
			Attending:   answers[i%2],
			MealChoice:  answers[(i/2)%len(answers)],
			GuestCount:  i%4 + 1,
			PhoneNumber: fmt.Sprintf("010-%04d-%04d", i, 9999-i),
			PageID:      "page-1",
		}
		if i%7 == 6 {
			out[i].Attending = models.AnswerUnknown
		}
	}
	return out
}
