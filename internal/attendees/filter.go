package attendees

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"wedding-attendees/internal/models"
)

// Filter returns the records that match both the search term and the
// category, in their original order. A blank term with CategoryAll returns
// every record.
func Filter(records []models.AttendeeRecord, searchTerm string, category models.Category) []models.AttendeeRecord {
	match := Matcher(searchTerm, category)
	out := make([]models.AttendeeRecord, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Matcher builds the combined search and category predicate
func Matcher(searchTerm string, category models.Category) func(models.AttendeeRecord) bool {
	search := searchPredicate(searchTerm)
	cat := categoryPredicate(category)
	return func(r models.AttendeeRecord) bool {
		return search(r) && cat(r)
	}
}

func searchPredicate(term string) func(models.AttendeeRecord) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return func(models.AttendeeRecord) bool { return true }
	}
	folded := foldText(term)
	var digits string
	if isPhoneLike(term) {
		digits = digitsOnly(term)
	}
	return func(r models.AttendeeRecord) bool {
		if strings.Contains(foldText(r.GuestName), folded) {
			return true
		}
		if strings.Contains(r.PhoneNumber, term) {
			return true
		}
		return digits != "" && strings.Contains(digitsOnly(r.PhoneNumber), digits)
	}
}

func categoryPredicate(c models.Category) func(models.AttendeeRecord) bool {
	switch c {
	case models.CategoryAttending:
		return func(r models.AttendeeRecord) bool { return r.Attending == models.AnswerYes }
	case models.CategoryNotAttending:
		return func(r models.AttendeeRecord) bool { return r.Attending == models.AnswerNo }
	case models.CategoryGroomSide:
		return func(r models.AttendeeRecord) bool { return r.GuestSide == models.SideGroom }
	case models.CategoryBrideSide:
		return func(r models.AttendeeRecord) bool { return r.GuestSide == models.SideBride }
	case models.CategoryMealYes:
		return func(r models.AttendeeRecord) bool { return r.MealChoice == models.AnswerYes }
	case models.CategoryMealNo:
		return func(r models.AttendeeRecord) bool { return r.MealChoice == models.AnswerNo }
	}
	return func(models.AttendeeRecord) bool { return true }
}

// foldText NFC normalizes and case folds s so composed and decomposed
// Hangul, and upper and lower case Latin, compare equal. A Caser holds
// state, so one is built per call.
func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// isPhoneLike reports whether s holds only digits and phone separators
func isPhoneLike(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && !strings.ContainsRune(" -+().", r) {
			return false
		}
	}
	return true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
