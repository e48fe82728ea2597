package media

import "math"

// Select maps playback time to the carousel index for count items shown
// perItemSeconds each. The carousel loops, so t is taken modulo the total
// length; negative t wraps from the end. It reports false when there is
// nothing to show.
func Select(count int, t, perItemSeconds float64) (int, bool) {
	if count <= 0 || perItemSeconds <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}

	total := float64(count) * perItemSeconds
	normalized := math.Mod(t, total)
	if normalized < 0 {
		normalized += total
	}

	idx := int(math.Floor(normalized / perItemSeconds))
	if idx < 0 {
		idx = 0
	}
	if idx > count-1 {
		idx = count - 1
	}
	return idx, true
}

// ItemSeconds is how long it stays on screen: its own display duration, or
// defaultSeconds when it has none.
func ItemSeconds(it Item, defaultSeconds float64) float64 {
	if it.DisplayDurationSeconds > 0 {
		return it.DisplayDurationSeconds
	}
	if defaultSeconds > 0 {
		return defaultSeconds
	}
	return 0
}

// CarouselSeconds is the length of one pass over items.
func CarouselSeconds(items []Item, defaultSeconds float64) float64 {
	var total float64
	for _, it := range items {
		total += ItemSeconds(it, defaultSeconds)
	}
	return total
}

// SelectItems is Select over an item sequence where each item keeps its own
// display duration. Items without one use defaultSeconds. Items are only read.
func SelectItems(items []Item, t, defaultSeconds float64) (int, bool) {
	if len(items) == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	total := CarouselSeconds(items, defaultSeconds)
	if total <= 0 {
		return 0, false
	}

	normalized := math.Mod(t, total)
	if normalized < 0 {
		normalized += total
	}

	last := -1
	var end float64
	for i, it := range items {
		d := ItemSeconds(it, defaultSeconds)
		if d <= 0 {
			continue
		}
		end += d
		last = i
		if normalized < end {
			return i, true
		}
	}
	return last, true
}
