package services

import (
	"net/url"
	"slices"

	"superstore-dashboard/internal/models"
)

// Selection is the set of chosen filter values per dimension. An empty
// slice means no restriction on that dimension.
type Selection struct {
	Regions       []string `json:"regions"`
	Categories    []string `json:"categories"`
	SubCategories []string `json:"sub_categories"`
}

func (s Selection) IsEmpty() bool {
	return len(s.Regions) == 0 && len(s.Categories) == 0 && len(s.SubCategories) == 0
}

// ParseSelection reads repeated region/category/sub_category query
// parameters into a Selection. Blank values are ignored.
func ParseSelection(query url.Values) Selection {
	return Selection{
		Regions:       cleanValues(query["region"]),
		Categories:    cleanValues(query["category"]),
		SubCategories: cleanValues(query["sub_category"]),
	}
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ApplyFilter returns the subsequence of table matching the selection:
// AND across dimensions, OR within a dimension's values. Row order is
// preserved and the result is always a fresh slice.
func ApplyFilter(table []models.Order, sel Selection) []models.Order {
	regions := toSet(sel.Regions)
	categories := toSet(sel.Categories)
	subCategories := toSet(sel.SubCategories)

	view := make([]models.Order, 0, len(table))
	for _, o := range table {
		if len(regions) > 0 && !regions[o.Region] {
			continue
		}
		if len(categories) > 0 && !categories[o.Category] {
			continue
		}
		if len(subCategories) > 0 && !subCategories[o.SubCategory] {
			continue
		}
		view = append(view, o)
	}
	return view
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Dimensions lists the distinct values available per filter dimension,
// sorted, for populating the dashboard's multi-selects.
type Dimensions struct {
	Regions       []string `json:"regions"`
	Categories    []string `json:"categories"`
	SubCategories []string `json:"sub_categories"`
}

func CollectDimensions(table []models.Order) Dimensions {
	return Dimensions{
		Regions:       distinct(table, func(o models.Order) string { return o.Region }),
		Categories:    distinct(table, func(o models.Order) string { return o.Category }),
		SubCategories: distinct(table, func(o models.Order) string { return o.SubCategory }),
	}
}

func distinct(table []models.Order, key func(models.Order) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, o := range table {
		k := key(o)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, k)
	}
	slices.Sort(values)
	return values
}
