package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// ErrBadTable is returned when the configured table name is not a plain
// SQL identifier.
var ErrBadTable = errors.New("invalid table name")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Querier is the subset of *sql.DB used by LoadSQL.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// readingRow is one row of the readings table.
type readingRow struct {
	Location string
	Network  string
	Strength sql.NullFloat64
}

// LoadSQL builds a Directory from a table shaped like
//
//	CREATE TABLE signal_readings (
//	    location VARCHAR(128) NOT NULL,
//	    network  VARCHAR(32)  NOT NULL,
//	    strength DOUBLE PRECISION NULL,
//	    position INTEGER NOT NULL
//	);
//
// Row order (by position) defines location order and, within a location,
// network order.  The table is only read.
func LoadSQL(ctx context.Context, db Querier, table string) (*Directory, Report, error) {
	q, err := selectReadings(table)
	if err != nil {
		return nil, Report{}, err
	}
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: query %s: %v", ErrDataUnavailable, table, err)
	}
	defer rows.Close()

	var out []readingRow
	for rows.Next() {
		var r readingRow
		if err := rows.Scan(&r.Location, &r.Network, &r.Strength); err != nil {
			return nil, Report{}, fmt.Errorf("%w: scan %s: %v", ErrDataUnavailable, table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	d, rep := fromRows(out)
	return d, rep, nil
}

func selectReadings(table string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrBadTable, table)
	}
	return "SELECT location, network, strength FROM " + table + " ORDER BY position", nil
}

// fromRows groups rows by exact location name in first-seen order and
// runs each group through the builder.
func fromRows(rows []readingRow) (*Directory, Report) {
	type group struct {
		name     string
		readings []model.NetworkReading
		reason   string
	}
	var groups []*group
	byName := map[string]*group{}
	for _, r := range rows {
		g, ok := byName[r.Location]
		if !ok {
			g = &group{name: r.Location}
			byName[r.Location] = g
			groups = append(groups, g)
		}
		if !r.Strength.Valid {
			if g.reason == "" {
				g.reason = fmt.Sprintf("null reading for %q", r.Network)
			}
			continue
		}
		g.readings = append(g.readings, model.NetworkReading{Network: r.Network, Strength: r.Strength.Float64})
	}
	b := newBuilder()
	for _, g := range groups {
		b.add(g.name, g.readings, g.reason)
	}
	return b.build()
}
