package stats

import (
	"sort"
	"time"

	"github.com/lifelens/backend/internal/models"
)

// Streaks counts consecutive-day runs over a set of dates on which an
// event occurred. The current streak walks backward from today (a run
// must include today or yesterday to count as current); the longest
// streak is the longest consecutive run anywhere in the set. Dates are
// compared as calendar days only.
func Streaks(dates []time.Time, today time.Time) models.StreakResult {
	if len(dates) == 0 {
		return models.StreakResult{}
	}

	seen := make(map[string]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := models.Day(d)
		key := day.Format(models.DateFormat)
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	current := currentStreak(seen, models.Day(today))
	longest := longestRun(days)

	return models.StreakResult{CurrentStreak: current, LongestStreak: longest}
}

// currentStreak walks backward one calendar day at a time. A streak that
// ended yesterday is still alive; a gap of two or more days resets it.
func currentStreak(seen map[string]bool, today time.Time) int {
	anchor := today
	if !seen[anchor.Format(models.DateFormat)] {
		anchor = anchor.AddDate(0, 0, -1)
		if !seen[anchor.Format(models.DateFormat)] {
			return 0
		}
	}

	count := 0
	for day := anchor; seen[day.Format(models.DateFormat)]; day = day.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// longestRun scans sorted unique days for the longest consecutive run.
func longestRun(days []time.Time) int {
	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
