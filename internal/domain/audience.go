package domain

import "fmt"

type AudienceKind int

const (
	// AudienceNobody matches no rows. It is what an unresolvable scope becomes.
	AudienceNobody AudienceKind = iota
	AudienceSelf
	AudienceDistrict
	AudienceRegion
	AudienceCountry
)

// Audience narrows an aggregate to the results created by one doctor, to one
// geographic unit, or to nothing at all. The zero value is AudienceNobody.
type Audience struct {
	Kind AudienceKind
	ID   int64
}

func Nobody() Audience { return Audience{Kind: AudienceNobody} }
func Self(doctorID int64) Audience { return Audience{Kind: AudienceSelf, ID: doctorID} }
func InDistrict(id int64) Audience { return Audience{Kind: AudienceDistrict, ID: id} }
func InRegion(id int64) Audience { return Audience{Kind: AudienceRegion, ID: id} }
func Country() Audience { return Audience{Kind: AudienceCountry} }

func (a Audience) IsEmpty() bool {
	return a.Kind == AudienceNobody
}

func (a Audience) String() string {
	switch a.Kind {
	case AudienceSelf:
		return fmt.Sprintf("doctor:%d", a.ID)
	case AudienceDistrict:
		return fmt.Sprintf("district:%d", a.ID)
	case AudienceRegion:
		return fmt.Sprintf("region:%d", a.ID)
	case AudienceCountry:
		return "country"
	default:
		return "nobody"
	}
}

type ScopeName string

const (
	ScopeMe       ScopeName = "me"
	ScopeDistrict ScopeName = "district"
	ScopeRegion   ScopeName = "region"
	ScopeCountry  ScopeName = "country"
)

var ScopeNames = []ScopeName{ScopeMe, ScopeDistrict, ScopeRegion, ScopeCountry}

func ParseScopeName(s string) (ScopeName, bool) {
	for _, name := range ScopeNames {
		if string(name) == s {
			return name, true
		}
	}
	return "", false
}

// ScopeSet holds the four reporting audiences of one doctor.
//
// District is not always a district: when only a region override is given it
// is the whole overridden region, i.e. every district in it.
type ScopeSet struct {
	Me       Audience
	District Audience
	Region   Audience
	Country  Audience
}

func (s ScopeSet) Get(name ScopeName) Audience {
	switch name {
	case ScopeMe:
		return s.Me
	case ScopeDistrict:
		return s.District
	case ScopeRegion:
		return s.Region
	case ScopeCountry:
		return s.Country
	default:
		return Nobody()
	}
}

// ScopeOverrides replace the doctor's own geography when resolving scopes.
type ScopeOverrides struct {
	RegionID *int64
	CityID   *int64
}
