package bot

import (
	"fmt"
	"strings"

	"akvabot/internal/aqua"
)

// Category is the requested ticket audience.
type Category string

const (
	CategoryAdult Category = "adult"
	CategoryChild Category = "child"
)

// adultPriceCutoff drives the price heuristic below. A tariff priced
// above the cutoff counts as adult unless its name says otherwise. The
// heuristic is approximate and intentionally kept as-is: some
// ambiguously named tariffs will misclassify, matching the behavior the
// cashier system was tuned against.
const adultPriceCutoff = 1000.0

var (
	adultMarkers = []string{"взрос", "adult"}
	childMarkers = []string{"детск", "child", "kids"}
)

// matchCategory reports whether the message selects a ticket category.
func matchCategory(text string) (Category, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "🧑":
		return CategoryAdult, true
	case "🧒":
		return CategoryChild, true
	}
	if containsAny(t, adultMarkers) {
		return CategoryAdult, true
	}
	if containsAny(t, childMarkers) {
		return CategoryChild, true
	}
	return "", false
}

// classifyTariff decides which audience a tariff belongs to. Explicit
// name markers win; otherwise the price cutoff decides.
func classifyTariff(t aqua.Tariff) Category {
	name := strings.ToLower(t.Name)
	if containsAny(name, childMarkers) {
		return CategoryChild
	}
	if containsAny(name, adultMarkers) {
		return CategoryAdult
	}
	if t.Price > adultPriceCutoff {
		return CategoryAdult
	}
	return CategoryChild
}

// filterTariffs keeps tariffs of the requested category and drops
// duplicate name/price pairs.
func filterTariffs(tariffs []aqua.Tariff, category Category) []aqua.Tariff {
	seen := make(map[string]struct{}, len(tariffs))
	out := make([]aqua.Tariff, 0, len(tariffs))
	for _, t := range tariffs {
		if classifyTariff(t) != category {
			continue
		}
		key := fmt.Sprintf("%s|%.2f", strings.ToLower(strings.TrimSpace(t.Name)), t.Price)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func formatTariffs(tariffs []aqua.Tariff) string {
	var sb strings.Builder
	for _, t := range tariffs {
		sb.WriteString(fmt.Sprintf("• %s — %.0f ₽", t.Name, t.Price))
		if t.Description != "" {
			sb.WriteString(" (" + t.Description + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatLoad renders the occupancy percentage with qualitative tiers.
func formatLoad(percent int) string {
	var label string
	switch {
	case percent < 30:
		label = "🟢 Свободно — отличное время для визита!"
	case percent < 60:
		label = "🟡 Умеренная загруженность."
	case percent < 85:
		label = "🟠 Многолюдно, возможны очереди."
	default:
		label = "🔴 Аквапарк почти заполнен."
	}
	return fmt.Sprintf(loadTextFormat, percent, label)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
