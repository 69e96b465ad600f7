// Package selection derives field selection state for extracted contact info
// and builds CRM update payloads from it. Everything here is a pure function
// over in-memory state; the UI boundary owns persistence of nothing.
package selection

import (
	"strings"

	"github.com/meetsync/meetsync-api/internal/models"
	"github.com/meetsync/meetsync-api/internal/services/extraction"
)

// CategoryGroup is one category with the extracted fields it contains,
// in canonical display order
type CategoryGroup struct {
	Category models.FieldCategory  `json:"category"`
	Fields   []models.ContactField `json:"fields"`
}

// Selection maps each field to whether the user wants it synced
type Selection map[models.ContactField]bool

// OrganizeByCategory groups the extracted fields by category. Categories with
// no extracted fields are omitted.
func OrganizeByCategory(info models.ContactInfo) []CategoryGroup {
	var groups []CategoryGroup
	for _, category := range models.CategoryOrder {
		var fields []models.ContactField
		for _, field := range models.CategoryFields[category] {
			if _, ok := info[string(field)]; ok {
				fields = append(fields, field)
			}
		}
		if len(fields) > 0 {
			groups = append(groups, CategoryGroup{Category: category, Fields: fields})
		}
	}
	return groups
}

// InitialSelection selects every extracted field
func InitialSelection(groups []CategoryGroup) Selection {
	selection := Selection{}
	for _, group := range groups {
		for _, field := range group.Fields {
			selection[field] = true
		}
	}
	return selection
}

// DeriveCategorySelection reports, per category, whether every one of its
// fields is selected
func DeriveCategorySelection(groups []CategoryGroup, selection Selection) map[models.FieldCategory]bool {
	derived := map[models.FieldCategory]bool{}
	for _, group := range groups {
		all := true
		for _, field := range group.Fields {
			if !selection[field] {
				all = false
				break
			}
		}
		derived[group.Category] = all
	}
	return derived
}

// ToggleField flips a single field's selection
func ToggleField(selection Selection, field models.ContactField) Selection {
	next := make(Selection, len(selection))
	for f, selected := range selection {
		next[f] = selected
	}
	next[field] = !next[field]
	return next
}

// ToggleCategory flips every field in a category to the opposite of the
// category's current fully-selected state
func ToggleCategory(groups []CategoryGroup, selection Selection, category models.FieldCategory) Selection {
	next := make(Selection, len(selection))
	for f, selected := range selection {
		next[f] = selected
	}
	target := !DeriveCategorySelection(groups, selection)[category]
	for _, group := range groups {
		if group.Category != category {
			continue
		}
		for _, field := range group.Fields {
			next[field] = target
		}
	}
	return next
}

// CountSelected returns how many fields are currently selected
func CountSelected(selection Selection) int {
	var count int
	for _, selected := range selection {
		if selected {
			count++
		}
	}
	return count
}

// BuildUpdatePayload maps the selected fields with usable values to their CRM
// property keys. An empty result is not an error; the caller reports "nothing
// to update".
func BuildUpdatePayload(selection Selection, info models.ContactInfo) map[string]string {
	payload := map[string]string{}
	for field, selected := range selection {
		if !selected {
			continue
		}
		value := strings.TrimSpace(info[string(field)])
		if value == "" || extraction.IsPlaceholder(field, value) {
			continue
		}
		property, ok := models.HubSpotProperties[field]
		if !ok {
			continue
		}
		payload[property] = value
	}
	return payload
}
