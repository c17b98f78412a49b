package store

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/joytest-admin/joytest-data-sub000/internal/domain"
)

// fromTestResults is the row source every statistics statement filters.
// FilterOpts predicates refer to its aliases.
const fromTestResults = tableTestResults + " tr" +
	" JOIN " + tablePatients + " p ON p.id = tr.patient_id" +
	" JOIN " + tableTestTypes + " tt ON tt.id = tr.test_type_id" +
	" JOIN " + tableCities + " c ON c.id = tr.city_id" +
	" JOIN " + tableDistricts + " d ON d.id = c.district_id" +
	" JOIN " + tableUsers + " u ON u.id = tr.created_by"

// FilterOpts are the optional dimensions that decide which test results count.
// Every dimension is independent; a nil field does not filter.
type FilterOpts struct {
	Search    *string
	City      *string
	RegionID  *int64
	CityID    *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// DatesOnly keeps the date range and drops every other dimension.
func (o FilterOpts) DatesOnly() FilterOpts {
	return FilterOpts{StartDate: o.StartDate, EndDate: o.EndDate}
}

// Predicate is the conjunction of every present dimension. With no dimensions
// it is a tautology.
func (o FilterOpts) Predicate() sq.Sqlizer {
	conds := sq.And{}

	if o.Search != nil && strings.TrimSpace(*o.Search) != "" {
		conds = append(conds, searchCond(strings.TrimSpace(*o.Search)))
	}
	if o.City != nil && strings.TrimSpace(*o.City) != "" {
		conds = append(conds, sq.ILike{"c.name": containsPattern(strings.TrimSpace(*o.City))})
	}
	if o.RegionID != nil {
		conds = append(conds, sq.Eq{"d.region_id": *o.RegionID})
	}
	if o.CityID != nil {
		conds = append(conds, sq.Eq{"tr.city_id": *o.CityID})
	}

	return append(conds, o.dateConds()...)
}

// DateRange is the inclusive bound on the observation timestamp alone.
func (o FilterOpts) DateRange() sq.Sqlizer {
	return sq.And(o.dateConds())
}

func (o FilterOpts) dateConds() []sq.Sqlizer {
	var conds []sq.Sqlizer
	if o.StartDate != nil {
		conds = append(conds, sq.GtOrEq{"tr.created_at": *o.StartDate})
	}
	if o.EndDate != nil {
		conds = append(conds, sq.LtOrEq{"tr.created_at": *o.EndDate})
	}
	return conds
}

func searchCond(search string) sq.Sqlizer {
	pattern := containsPattern(search)

	return sq.Or{
		sq.ILike{"c.name": pattern},
		sq.ILike{"tt.name": pattern},
		sq.Expr(
			"EXISTS (SELECT 1 FROM "+tableTestResultPathogens+" strp"+
				" JOIN "+tablePathogens+" spa ON spa.id = strp.pathogen_id"+
				" WHERE strp.test_result_id = tr.id AND spa.name ILIKE ?)",
			pattern,
		),
		sq.ILike{"p.identifier": pattern},
		sq.ILike{"u.icp": pattern},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into an ILIKE substring pattern, so that
// wildcards typed by the user match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// audienceCond restricts rows to an audience. Nobody matches no row at all.
func audienceCond(a domain.Audience) sq.Sqlizer {
	switch a.Kind {
	case domain.AudienceSelf:
		return sq.Eq{"tr.created_by": a.ID}
	case domain.AudienceDistrict:
		return sq.Eq{"c.district_id": a.ID}
	case domain.AudienceRegion:
		return sq.Eq{"d.region_id": a.ID}
	case domain.AudienceCountry:
		return sq.And{}
	default:
		return sq.Expr("FALSE")
	}
}

// StatisticsOpts is what every aggregate accepts: whose results, and which of them.
type StatisticsOpts struct {
	Audience domain.Audience
	Filter   FilterOpts
}

func (o StatisticsOpts) Predicate() sq.Sqlizer {
	return sq.And{audienceCond(o.Audience), o.Filter.Predicate()}
}

// Render renders a predicate with $n placeholders numbered from offset+1, for
// embedding after offset parameters the caller has already bound. A doubled
// "??" is an escaped literal question mark, as in squirrel.
func Render(pred sq.Sqlizer, offset int) (string, []interface{}, error) {
	sql, args, err := pred.ToSql()
	if err != nil {
		return "", nil, err
	}

	var buf strings.Builder
	n := offset
	for i := 0; i < len(sql); i++ {
		if sql[i] != '?' {
			buf.WriteByte(sql[i])
			continue
		}
		if i+1 < len(sql) && sql[i+1] == '?' {
			buf.WriteByte('?')
			i++
			continue
		}
		n++
		fmt.Fprintf(&buf, "$%d", n)
	}

	if n-offset != len(args) {
		return "", nil, fmt.Errorf("render predicate: %d placeholders for %d args", n-offset, len(args))
	}

	return buf.String(), args, nil
}
