package store

import (
	"math"

	"mini-crm/internal/models"
)

// padStatusCounts fills in zero entries for every status missing from the
// grouped rows, so dashboard charts never have to null-check a category.
// Output follows the canonical status order.
func padStatusCounts(rows []StatusCount) []StatusCount {
	byStatus := make(map[models.LeadStatus]StatusCount, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r
	}

	out := make([]StatusCount, 0, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		if r, ok := byStatus[status]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, StatusCount{Status: status})
	}
	return out
}

// conversionRate is converted/total as a percentage rounded to two
// decimals, zero when there are no leads at all.
func conversionRate(converted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(converted)/float64(total)*100*100) / 100
}
