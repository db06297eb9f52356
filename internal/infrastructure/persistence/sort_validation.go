package persistence

import "strings"

// templateSortColumns lists the columns a template listing may sort on.
// Sort input is interpolated into the ORDER BY clause, so anything not in
// this whitelist is replaced with the caller's fallback column.
var templateSortColumns = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"category_id":   true,
	"category_name": true,
	"amount":        true,
	"description":   true,
	"frequency":     true,
	"start_date":    true,
	"end_date":      true,
	"next_due_date": true,
}

// sortColumn returns requested when the whitelist allows it, fallback otherwise
func sortColumn(requested string, allowed map[string]bool, fallback string) string {
	requested = strings.TrimSpace(requested)
	if allowed[requested] {
		return requested
	}
	return fallback
}

// sortDirection normalizes a direction to ASC or DESC, defaulting to DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "ASC") {
		return "ASC"
	}
	return "DESC"
}
