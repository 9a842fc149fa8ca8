package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/yourusername/permit-odds/internal/models"
)

// Schema is the record store layout the engine reads. The engine never
// creates it; fixtures and tooling do.
const Schema = `
CREATE TABLE zone (
	zone_id  INTEGER PRIMARY KEY,
	zonename TEXT NOT NULL UNIQUE
);
CREATE TABLE "date" (
	date_id INTEGER PRIMARY KEY,
	datestr TEXT NOT NULL UNIQUE
);
CREATE TABLE wins (
	choicenum  INTEGER NOT NULL,
	zoneid1    INTEGER,
	dateid1    INTEGER,
	groupsize1 INTEGER,
	zoneid2    INTEGER,
	dateid2    INTEGER,
	groupsize2 INTEGER,
	zoneid3    INTEGER,
	dateid3    INTEGER,
	groupsize3 INTEGER,
	avgodds    REAL NOT NULL
);
`

// FixtureZone is a zone row.
type FixtureZone struct {
	ID   int64
	Name string
}

// FixtureDate is a date row in MM-DD-YYYY form.
type FixtureDate struct {
	ID   int64
	Date string
}

// FixtureWin is a choice-set record. Slots beyond the first len(Slots) are NULL.
type FixtureWin struct {
	Slots   []models.Slot
	AvgOdds float64
}

// Fixture describes the contents of a test record store.
type Fixture struct {
	Zones []FixtureZone
	Dates []FixtureDate
	Wins  []FixtureWin
}

// CreateTestStore writes fx into dir/odds_<year>.db and returns its path.
func CreateTestStore(t testing.TB, dir string, year int, fx Fixture) string {
	t.Helper()

	path := NewDirLocator(dir).Path(year)
	if err := WriteFixture(path, fx); err != nil {
		t.Fatalf("failed to write test store %s: %v", filepath.Base(path), err)
	}
	return path
}

// WriteFixture creates the schema at path and inserts fx.
func WriteFixture(path string, fx Fixture) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(Schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, z := range fx.Zones {
		if _, err := tx.Exec(`INSERT INTO zone (zone_id, zonename) VALUES (?, ?)`, z.ID, z.Name); err != nil {
			return err
		}
	}
	for _, d := range fx.Dates {
		if _, err := tx.Exec(`INSERT INTO "date" (date_id, datestr) VALUES (?, ?)`, d.ID, d.Date); err != nil {
			return err
		}
	}
	for _, w := range fx.Wins {
		args := []interface{}{len(w.Slots)}
		for i := 0; i < models.MaxChoices; i++ {
			if i < len(w.Slots) {
				args = append(args, w.Slots[i].ZoneID, w.Slots[i].DateID, w.Slots[i].GroupSize)
			} else {
				args = append(args, nil, nil, nil)
			}
		}
		args = append(args, w.AvgOdds)
		if _, err := tx.Exec(`INSERT INTO wins (
			choicenum, zoneid1, dateid1, groupsize1, zoneid2, dateid2, groupsize2,
			zoneid3, dateid3, groupsize3, avgodds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
