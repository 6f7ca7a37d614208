package models

import "time"

// Side identifies which half of the wedding party a guest belongs to
type Side string

const (
	SideUnknown Side = ""
	SideGroom   Side = "groom"
	SideBride   Side = "bride"
)

// Answer is a yes/no response; the zero value means the field was missing
// or unrecognized
type Answer string

const (
	AnswerUnknown Answer = ""
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
)

// AttendeeRecord represents one RSVP response as loaded from the proxy
type AttendeeRecord struct {
	GuestName    string    `json:"guest_name" yaml:"guest_name"`
	GuestSide    Side      `json:"guest_side" yaml:"guest_side"`
	Attending    Answer    `json:"attending" yaml:"attending"`
	MealChoice   Answer    `json:"meal_choice" yaml:"meal_choice"`
	GuestCount   int       `json:"guest_count" yaml:"guest_count"`
	PhoneNumber  string    `json:"phone_number" yaml:"phone_number"`
	ConsentGiven bool      `json:"consent_given" yaml:"consent_given"`
	PageID       string    `json:"page_id" yaml:"page_id"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// SummaryStats holds the counters shown on the statistics panel.
// Every field is recomputed from the full record list.
type SummaryStats struct {
	Total              int `json:"total" yaml:"total"`
	Attending          int `json:"attending" yaml:"attending"`
	NotAttending       int `json:"not_attending" yaml:"not_attending"`
	GroomSide          int `json:"groom_side" yaml:"groom_side"`
	BrideSide          int `json:"bride_side" yaml:"bride_side"`
	GroomSideAttending int `json:"groom_side_attending" yaml:"groom_side_attending"`
	BrideSideAttending int `json:"bride_side_attending" yaml:"bride_side_attending"`
	TotalGuests        int `json:"total_guests" yaml:"total_guests"`
	GroomMealCount     int `json:"groom_meal_count" yaml:"groom_meal_count"`
	BrideMealCount     int `json:"bride_meal_count" yaml:"bride_meal_count"`
	MealCount          int `json:"meal_count" yaml:"meal_count"`
	MealYes            int `json:"meal_yes" yaml:"meal_yes"`
	MealNo             int `json:"meal_no" yaml:"meal_no"`
}

// Category is the single-select coarse filter applied on top of search
type Category string

const (
	CategoryAll          Category = "all"
	CategoryAttending    Category = "attending"
	CategoryNotAttending Category = "not_attending"
	CategoryGroomSide    Category = "groom_side"
	CategoryBrideSide    Category = "bride_side"
	CategoryMealYes      Category = "meal_yes"
	CategoryMealNo       Category = "meal_no"
)

// Categories lists every filter category in display order
var Categories = []Category{
	CategoryAll,
	CategoryAttending,
	CategoryNotAttending,
	CategoryGroomSide,
	CategoryBrideSide,
	CategoryMealYes,
	CategoryMealNo,
}

// ParseCategory maps a user supplied name to a Category.
// An empty string is treated as CategoryAll.
func ParseCategory(s string) (Category, bool) {
	if s == "" {
		return CategoryAll, true
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryAll, false
}
