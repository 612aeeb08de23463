// Package geosql builds the SQL fragments the repositories use for proximity search.
package geosql

import (
	"fmt"

	"sharedcab/internal/core/domain/model/kernel"

	"gorm.io/gorm/clause"
)

// DistanceKm returns a great-circle distance expression in kilometres between
// the given columns and near. The acos argument is clamped to avoid NaN on
// identical points.
func DistanceKm(latColumn, lngColumn string, near kernel.Location) clause.Expr {
	sql := fmt.Sprintf(
		"(%[1]v * acos(least(1.0, greatest(-1.0, "+
			"cos(radians(?)) * cos(radians(%[2]s)) * cos(radians(%[3]s) - radians(?)) + "+
			"sin(radians(?)) * sin(radians(%[2]s))))))",
		kernel.EarthRadiusKm, latColumn, lngColumn,
	)
	return clause.Expr{
		SQL:  sql,
		Vars: []any{near.Latitude(), near.Longitude(), near.Latitude()},
	}
}

// Within returns a condition that holds when the columns lie at most radiusKm from near.
func Within(latColumn, lngColumn string, near kernel.Location, radiusKm float64) clause.Expr {
	d := DistanceKm(latColumn, lngColumn, near)
	return clause.Expr{
		SQL:  d.SQL + " <= ?",
		Vars: append(d.Vars, radiusKm),
	}
}
