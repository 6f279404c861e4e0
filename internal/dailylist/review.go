package dailylist

import (
	"sort"

	"github.com/vytor/senseflash/internal/models"
)

// ReviewLevel is the level from which a sense is scheduled by review mode.
const ReviewLevel = 3

// NextReview is the earliest review date among review-level senses and the
// number of senses due on it. Date is empty when nothing is scheduled.
type NextReview struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ReviewList returns the words, from any chunk, with a review-level sense
// whose review date has come. Oldest review date first; ties keep word order.
func ReviewList(words []models.Word, statuses models.StatusIndex, today string) []models.Word {
	type candidate struct {
		word   models.Word
		oldest string
	}
	var pool []candidate
	for _, w := range words {
		oldest := ""
		for _, s := range w.Senses {
			st, ok := statuses[s.SensesID]
			if !ok || st.Level < ReviewLevel || st.ReviewDate == "" || st.ReviewDate > today {
				continue
			}
			if oldest == "" || st.ReviewDate < oldest {
				oldest = st.ReviewDate
			}
		}
		if oldest != "" {
			pool = append(pool, candidate{word: w, oldest: oldest})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].oldest < pool[j].oldest
	})

	out := make([]models.Word, 0, len(pool))
	for _, c := range pool {
		out = append(out, c.word)
	}
	return out
}

// Next finds the earliest scheduled review. Overdue dates count, so the
// answer is in the past while reviews are pending.
func Next(words []models.Word, statuses models.StatusIndex) NextReview {
	var next NextReview
	for _, w := range words {
		for _, s := range w.Senses {
			st, ok := statuses[s.SensesID]
			if !ok || st.Level < ReviewLevel || st.ReviewDate == "" {
				continue
			}
			switch {
			case next.Date == "" || st.ReviewDate < next.Date:
				next = NextReview{Date: st.ReviewDate, Count: 1}
			case st.ReviewDate == next.Date:
				next.Count++
			}
		}
	}
	return next
}
