package domain

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// NextOrder returns the order value that appends after items.
func NextOrder(items []Activity) int {
	highest := 0
	for _, a := range items {
		highest = max(highest, a.Order)
	}
	return highest + 1
}

// ResequenceActivities sorts activities by (Order, StartsAt, CreatedAt) and
// renumbers them 1..N. Untimed activities sort after timed ones with the same
// order. The input slice is not modified.
func ResequenceActivities(items []Activity) []Activity {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Activity) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		switch {
		case a.StartsAt != nil && b.StartsAt != nil:
			if c := a.StartsAt.Compare(*b.StartsAt); c != 0 {
				return c
			}
		case a.StartsAt != nil:
			return -1
		case b.StartsAt != nil:
			return 1
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// InsertActivityAt places a at 1-based position inside items (clamped to
// 1..len+1) and renumbers the result 1..N. items must already be in order and
// must not contain a.
func InsertActivityAt(items []Activity, a Activity, position int) []Activity {
	ordered := ResequenceActivities(items)
	idx := min(max(position, 1), len(ordered)+1) - 1
	out := slices.Insert(ordered, idx, a)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// OrderChanges diffs before and after and returns the rows whose order or day
// changed.
func OrderChanges(before, after []Activity) []OrderChange {
	prev := make(map[uuid.UUID]Activity, len(before))
	for _, a := range before {
		prev[a.ID] = a
	}
	var changes []OrderChange
	for _, a := range after {
		old, ok := prev[a.ID]
		if ok && old.Order == a.Order && sameDay(old.DayID, a.DayID) {
			continue
		}
		changes = append(changes, OrderChange{ID: a.ID, DayID: a.DayID, Order: a.Order})
	}
	return changes
}

// ResequenceDays sorts days by (Number, CreatedAt) and renumbers them 1..N.
func ResequenceDays(days []Day) []Day {
	out := slices.Clone(days)
	slices.SortStableFunc(out, func(a, b Day) int {
		if c := cmp.Compare(a.Number, b.Number); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	for i := range out {
		out[i].Number = i + 1
	}
	return out
}

func sameDay(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
