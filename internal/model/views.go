package model

import "sort"

// PendingView returns pending items sorted by order.
func PendingView(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Pending() {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CompletedView returns completed items, most recently completed first.
// Items without a completion time sort last.
func CompletedView(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Completed() {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CompletedAt, out[j].CompletedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return out
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Completed() {
			done++
		} else {
			pending++
		}
	}
	return
}
