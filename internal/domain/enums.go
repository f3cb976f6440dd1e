package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryMaterials Category = "materials"
	CategoryLabor     Category = "labor"
	CategoryTools     Category = "tools"
	CategoryLogistics Category = "logistics"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryMaterials, CategoryLabor, CategoryTools, CategoryLogistics}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (want materials, labor, tools or logistics)", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMaterials, CategoryLabor, CategoryTools, CategoryLogistics:
		return true
	}
	return false
}

type PlanState string

const (
	PlanEditable PlanState = "editable"
	PlanApproved PlanState = "approved"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// ResolutionRule names the precedence rule that produced a price.
type ResolutionRule string

const (
	RuleLiveQuote  ResolutionRule = "live_quote"
	RuleHistorical ResolutionRule = "historical"
	RuleFallback   ResolutionRule = "fallback"
)

// FallbackVendor is the vendor recorded on heuristic prices.
const FallbackVendor = "fallback"
