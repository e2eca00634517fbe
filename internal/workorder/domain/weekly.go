package domain

import (
	"sort"
	"strconv"
)

// UnknownWeek labels work orders stored without any week label.
const UnknownWeek = "Unknown Week"

// WeekGroup is one section of a technician's weekly list.
type WeekGroup struct {
	Week       string       `json:"week"`
	WorkOrders []*WorkOrder `json:"work_orders"`
}

// WeekLabel returns Week, falling back to the legacy WeekNumber and then to
// UnknownWeek.
func (w *WorkOrder) WeekLabel() string {
	switch {
	case w.Week != "":
		return w.Week
	case w.WeekNumber != "":
		return w.WeekNumber
	}
	return UnknownWeek
}

// GroupByWeek keeps the work orders of technician and groups them by their
// week label, newest week first. Labels that are not numbers sort last.
// Within a group the input order is kept.
func GroupByWeek(orders []*WorkOrder, technician string) []WeekGroup {
	index := make(map[string]int)
	var groups []WeekGroup
	for _, wo := range orders {
		if wo == nil || wo.Technician != technician {
			continue
		}
		week := wo.WeekLabel()
		i, ok := index[week]
		if !ok {
			i = len(groups)
			index[week] = i
			groups = append(groups, WeekGroup{Week: week})
		}
		groups[i].WorkOrders = append(groups[i].WorkOrders, wo)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		wa, errA := strconv.Atoi(groups[a].Week)
		wb, errB := strconv.Atoi(groups[b].Week)
		switch {
		case errA != nil && errB != nil:
			return false
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return wa > wb
	})
	return groups
}
