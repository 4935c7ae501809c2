package booking

import (
	"context"
	"sort"

	domain "github.com/salonspace/booking-api/internal/domain/booking"
	"github.com/salonspace/booking-api/internal/models"
)

type MasterStat struct {
	MasterName      string `json:"master_name"`
	CompletedOrders int    `json:"completed_orders"`
}

type MonthTopMasters struct {
	Month      int          `json:"month"`
	TopMasters []MasterStat `json:"topMasters"`
}

type TopMasters struct {
	repo domain.Repository
}

func NewTopMasters(repo domain.Repository) *TopMasters {
	return &TopMasters{repo: repo}
}

// Execute counts completed appointments per master per month for one
// year. Months come back ascending, masters within a month by
// completed order count descending.
func (uc *TopMasters) Execute(
	ctx context.Context,
	year int,
) ([]MonthTopMasters, error) {

	completed, err := uc.repo.ListCompletedByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	return aggregateTopMasters(completed), nil
}

func aggregateTopMasters(completed []models.Appointment) []MonthTopMasters {
	byMonth := map[int]map[string]int{}

	for _, ap := range completed {
		if ap.Master == nil {
			continue
		}
		month := int(ap.AppointmentTime.Month())
		if byMonth[month] == nil {
			byMonth[month] = map[string]int{}
		}
		byMonth[month][ap.Master.Username]++
	}

	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)

	result := make([]MonthTopMasters, 0, len(months))
	for _, m := range months {
		stats := make([]MasterStat, 0, len(byMonth[m]))
		for name, count := range byMonth[m] {
			stats = append(stats, MasterStat{MasterName: name, CompletedOrders: count})
		}
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].CompletedOrders != stats[j].CompletedOrders {
				return stats[i].CompletedOrders > stats[j].CompletedOrders
			}
			return stats[i].MasterName < stats[j].MasterName
		})
		result = append(result, MonthTopMasters{Month: m, TopMasters: stats})
	}

	return result
}
