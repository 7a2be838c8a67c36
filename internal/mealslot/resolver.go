// Package mealslot resolves a meal-count or fasting-mode selection into the
// ordered calorie slots that make up a day.
package mealslot

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Fasting-mode slot names. A fasting selection is a subset of these.
const (
	SlotPreIftar         = "pre-iftar"
	SlotIftar            = "iftar"
	SlotFullMealTaraweeh = "full-meal-taraweeh"
	SlotSnackTaraweeh    = "snack-taraweeh"
	SlotSuhoor           = "suhoor"
)

var fastingSlots = map[string]bool{
	SlotPreIftar:         true,
	SlotIftar:            true,
	SlotFullMealTaraweeh: true,
	SlotSnackTaraweeh:    true,
	SlotSuhoor:           true,
}

// IsFastingSlot reports whether a slot name belongs to the fasting-mode
// slot family.
func IsFastingSlot(name string) bool {
	return fastingSlots[name]
}

// Slot is one named meal position with its share of daily calories.
type Slot struct {
	Name       string  `yaml:"slot" json:"slot"`
	Percentage float64 `yaml:"percentage" json:"percentage"`
}

// Template is the ordered slot list for one day.
type Template []Slot

// UnsupportedMealStructureError reports a meal count or fasting selection
// with no matching template.
type UnsupportedMealStructureError struct {
	Requested string
}

func (e *UnsupportedMealStructureError) Error() string {
	return fmt.Sprintf("unsupported meal structure: %s", e.Requested)
}

type fastingEntry struct {
	Slots []string `yaml:"slots"`
	Split []Slot   `yaml:"split"`
}

type templateFile struct {
	MealCounts map[int][]Slot `yaml:"meal_counts"`
	Fasting    []fastingEntry `yaml:"fasting"`
}

type templateTable struct {
	byCount   map[int]Template
	byFasting map[string]Template
}

var loadTable = sync.OnceValues(func() (*templateTable, error) {
	var file templateFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse slot templates: %w", err)
	}

	table := &templateTable{
		byCount:   make(map[int]Template, len(file.MealCounts)),
		byFasting: make(map[string]Template, len(file.Fasting)),
	}
	for count, slots := range file.MealCounts {
		table.byCount[count] = Template(slots)
	}
	for _, entry := range file.Fasting {
		table.byFasting[fastingKey(entry.Slots)] = Template(entry.Split)
	}
	return table, nil
})

// fastingKey canonicalizes a slot selection so lookup ignores order.
func fastingKey(slots []string) string {
	sorted := make([]string, len(slots))
	copy(sorted, slots)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// ResolveMealsPerDay returns the slot template for an integer meals-per-day
// selection.
func ResolveMealsPerDay(count int) (Template, error) {
	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	template, ok := table.byCount[count]
	if !ok {
		return nil, &UnsupportedMealStructureError{Requested: fmt.Sprintf("%d meals per day", count)}
	}
	return template, nil
}

// ResolveFasting returns the slot template for a fasting-mode slot
// selection. The selection is matched as a set; order does not matter.
func ResolveFasting(selected []string) (Template, error) {
	for _, name := range selected {
		if !fastingSlots[name] {
			return nil, &UnsupportedMealStructureError{Requested: fmt.Sprintf("unknown fasting slot %q", name)}
		}
	}

	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	template, ok := table.byFasting[fastingKey(selected)]
	if !ok {
		return nil, &UnsupportedMealStructureError{
			Requested: fmt.Sprintf("fasting selection [%s]", strings.Join(selected, ", ")),
		}
	}
	return template, nil
}
