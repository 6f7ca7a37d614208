package notify

import (
	"fmt"
	"strings"
	"time"

	"wedding-attendees/internal/models"
)

// DigestTimeLayout is the layout of the digest's "as of" line
const DigestTimeLayout = "2006-01-02 15:04"

// Subject returns the digest title for a couple
func Subject(groomName, brideName string) string {
	return fmt.Sprintf("[참석 현황] %s ♥ %s", groomName, brideName)
}

// FormatDigest renders summary counters as a short plain-text message
func FormatDigest(title string, s models.SummaryStats, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "기준: %s\n\n", at.Format(DigestTimeLayout))
	fmt.Fprintf(&b, "총 응답: %d건\n", s.Total)
	fmt.Fprintf(&b, "참석: %d건 / 불참: %d건\n", s.Attending, s.NotAttending)
	fmt.Fprintf(&b, "신랑측: %d건 (참석 %d건)\n", s.GroomSide, s.GroomSideAttending)
	fmt.Fprintf(&b, "신부측: %d건 (참석 %d건)\n", s.BrideSide, s.BrideSideAttending)
	fmt.Fprintf(&b, "참석 인원: %d명\n", s.TotalGuests)
	fmt.Fprintf(&b, "식사 인원: %d명 (신랑측 %d명 / 신부측 %d명)\n", s.MealCount, s.GroomMealCount, s.BrideMealCount)
	fmt.Fprintf(&b, "식사 응답: 예 %d건 / 아니오 %d건\n", s.MealYes, s.MealNo)
	return b.String()
}
