package attendees

import "wedding-attendees/internal/models"

// ComputeSummary aggregates the full, unfiltered record list in one pass.
//
// Records with a missing side, attendance or meal value still count toward
// Total but are left out of the matching breakdown.
func ComputeSummary(records []models.AttendeeRecord) models.SummaryStats {
	var s models.SummaryStats
	for _, r := range records {
		s.Total++

		attending := r.Attending == models.AnswerYes
		switch r.Attending {
		case models.AnswerYes:
			s.Attending++
		case models.AnswerNo:
			s.NotAttending++
		}

		switch r.MealChoice {
		case models.AnswerYes:
			s.MealYes++
		case models.AnswerNo:
			s.MealNo++
		}

		eatsMeal := attending && r.MealChoice == models.AnswerYes
		if attending {
			s.TotalGuests += r.GuestCount
		}
		if eatsMeal {
			s.MealCount += r.GuestCount
		}

		switch r.GuestSide {
		case models.SideGroom:
			s.GroomSide++
			if attending {
				s.GroomSideAttending++
			}
			if eatsMeal {
				s.GroomMealCount += r.GuestCount
			}
		case models.SideBride:
			s.BrideSide++
			if attending {
				s.BrideSideAttending++
			}
			if eatsMeal {
				s.BrideMealCount += r.GuestCount
			}
		}
	}
	return s
}
