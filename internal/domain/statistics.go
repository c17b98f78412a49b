package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AgeGroup string

const (
	AgeGroupToddler AgeGroup = "0-5"
	AgeGroupChild   AgeGroup = "6-14"
	AgeGroupYouth   AgeGroup = "15-24"
	AgeGroupAdult   AgeGroup = "25-64"
	AgeGroupSenior  AgeGroup = "65+"
)

// AgeGroupRange is an inclusive range of whole years. Max < 0 means unbounded.
type AgeGroupRange struct {
	Group AgeGroup
	Min   int
	Max   int
}

// AgeGroups is the fixed partition used by every age-bucketed aggregate, in order.
var AgeGroups = []AgeGroupRange{
	{Group: AgeGroupToddler, Min: 0, Max: 5},
	{Group: AgeGroupChild, Min: 6, Max: 14},
	{Group: AgeGroupYouth, Min: 15, Max: 24},
	{Group: AgeGroupAdult, Min: 25, Max: 64},
	{Group: AgeGroupSenior, Min: 65, Max: -1},
}

func (r AgeGroupRange) Contains(age int) bool {
	return age >= r.Min && (r.Max < 0 || age <= r.Max)
}

// AgeGroupOf returns the group of an age in whole years; false for negative ages.
func AgeGroupOf(age int) (AgeGroup, bool) {
	for _, r := range AgeGroups {
		if r.Contains(age) {
			return r.Group, true
		}
	}
	return "", false
}

// AgeGroupIndex orders groups the same way AgeGroups does; unknown groups sort last.
func AgeGroupIndex(g AgeGroup) int {
	for i, r := range AgeGroups {
		if r.Group == g {
			return i
		}
	}
	return len(AgeGroups)
}

type PositiveNegativeCounts struct {
	Positive int64 `json:"positive" db:"positive"`
	Negative int64 `json:"negative" db:"negative"`
}

func (c PositiveNegativeCounts) Total() int64 {
	return c.Positive + c.Negative
}

// AgeGroupCounts always holds every group of AgeGroups.
type AgeGroupCounts map[AgeGroup]int64

func NewAgeGroupCounts() AgeGroupCounts {
	counts := make(AgeGroupCounts, len(AgeGroups))
	for _, r := range AgeGroups {
		counts[r.Group] = 0
	}
	return counts
}

func (c AgeGroupCounts) Sum() int64 {
	var sum int64
	for _, v := range c {
		sum += v
	}
	return sum
}

type PathogenCount struct {
	PathogenID   int64  `json:"pathogenId" db:"pathogen_id"`
	PathogenName string `json:"pathogenName" db:"pathogen_name"`
	Count        int64  `json:"count" db:"count"`
}

type PathogenAgeGroupCount struct {
	PathogenID   int64    `json:"pathogenId"`
	PathogenName string   `json:"pathogenName"`
	AgeGroup     AgeGroup `json:"ageGroup"`
	Count        int64    `json:"count"`
}

type BucketPathogenCount struct {
	Bucket       time.Time `json:"bucket" db:"bucket"`
	PathogenID   int64     `json:"pathogenId" db:"pathogen_id"`
	PathogenName string    `json:"pathogenName" db:"pathogen_name"`
	Count        int64     `json:"count" db:"count"`
}

type BucketCount struct {
	Bucket time.Time `json:"bucket"`
	Count  int64     `json:"count"`
}

type TimeSeries struct {
	Period     Period                `json:"period"`
	ByPathogen []BucketPathogenCount `json:"byPathogen"`
	Total      []BucketCount         `json:"total"`
}

// Percent is a percentage encoded as a JSON number with two decimals.
type Percent struct {
	decimal.Decimal
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}

type PathogenShare struct {
	PathogenCount
	Percentage Percent `json:"percentage"`
}

type ScopeDistribution struct {
	Scope     ScopeName       `json:"scope"`
	Total     int64           `json:"total"`
	Pathogens []PathogenShare `json:"pathogens"`
}
