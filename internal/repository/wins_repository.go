package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/yourusername/permit-odds/internal/models"
	"github.com/yourusername/permit-odds/internal/store"
)

// SQLiteWinsRepository implements WinsRepository for a single year's store
type SQLiteWinsRepository struct {
	store *store.Store
}

// NewSQLiteWinsRepository creates a repository over an open store
func NewSQLiteWinsRepository(st *store.Store) *SQLiteWinsRepository {
	return &SQLiteWinsRepository{store: st}
}

// Close closes the underlying store connection
func (r *SQLiteWinsRepository) Close() error {
	return r.store.Close()
}

// ResolveZone converts a zone name into this store's zone id
func (r *SQLiteWinsRepository) ResolveZone(ctx context.Context, zoneName string) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, `SELECT zone_id FROM zone WHERE zonename = ?`, zoneName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		if suggestion := r.suggestZone(ctx, zoneName); suggestion != "" {
			return 0, fmt.Errorf("zone %q in %d (did you mean %q?): %w", zoneName, r.store.Year(), suggestion, models.ErrNotFound)
		}
		return 0, fmt.Errorf("zone %q in %d: %w", zoneName, r.store.Year(), models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve zone: %w", err)
	}
	return id, nil
}

// ResolveDate converts an MM-DD-YYYY date into this store's date id
func (r *SQLiteWinsRepository) ResolveDate(ctx context.Context, dateString string) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, `SELECT date_id FROM "date" WHERE datestr = ?`, dateString).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("date %s in %d: %w", dateString, r.store.Year(), models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve date: %w", err)
	}
	return id, nil
}

// ZoneNames lists every zone name in the store
func (r *SQLiteWinsRepository) ZoneNames(ctx context.Context) ([]string, error) {
	rows, err := r.store.Query(ctx, `SELECT zonename FROM zone ORDER BY zone_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// suggestZone returns the closest known zone name, or "" when nothing is close.
func (r *SQLiteWinsRepository) suggestZone(ctx context.Context, zoneName string) string {
	names, err := r.ZoneNames(ctx)
	if err != nil {
		return ""
	}

	best, bestDist := "", -1
	needle := strings.ToLower(zoneName)
	for _, name := range names {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = name, dist
		}
	}

	limit := len(zoneName) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// FindExact returns avg odds of every choice-set record matching slots
// exactly. Group size filters a slot only when its zone is the core zone.
func (r *SQLiteWinsRepository) FindExact(ctx context.Context, slots []models.Slot, coreZoneID int64) ([]float64, error) {
	if len(slots) < 1 || len(slots) > models.MaxChoices {
		return nil, fmt.Errorf("choice count %d out of range 1..%d", len(slots), models.MaxChoices)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT avgodds FROM wins WHERE choicenum = ?`)
	args := []interface{}{len(slots)}
	for i, slot := range slots {
		n := i + 1
		fmt.Fprintf(&sb, ` AND zoneid%d = ? AND dateid%d = ?`, n, n)
		args = append(args, slot.ZoneID, slot.DateID)
		if slot.ZoneID == coreZoneID {
			fmt.Fprintf(&sb, ` AND groupsize%d = ?`, n)
			args = append(args, slot.GroupSize)
		}
	}
	sb.WriteString(` ORDER BY rowid`)

	rows, err := r.store.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exact match: %w", err)
	}
	defer rows.Close()

	var odds []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan exact match: %w", err)
		}
		odds = append(odds, v)
	}
	return odds, rows.Err()
}

// FetchCoreSingle returns the core zone's single-choice records for a date,
// one per observed group size
func (r *SQLiteWinsRepository) FetchCoreSingle(ctx context.Context, coreZoneID, dateID int64) ([]models.GroupOdds, error) {
	query := `
		SELECT groupsize1, avgodds
		FROM wins
		WHERE choicenum = 1 AND zoneid1 = ? AND dateid1 = ?
		ORDER BY groupsize1, rowid
	`

	rows, err := r.store.Query(ctx, query, coreZoneID, dateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query core zone odds: %w", err)
	}
	defer rows.Close()

	var out []models.GroupOdds
	for rows.Next() {
		var gs sql.NullInt64
		var odds float64
		if err := rows.Scan(&gs, &odds); err != nil {
			return nil, fmt.Errorf("failed to scan core zone odds: %w", err)
		}
		if !gs.Valid {
			continue
		}
		out = append(out, models.GroupOdds{GroupSize: int(gs.Int64), AvgOdds: odds})
	}
	return out, rows.Err()
}

// FindSecondChoiceCandidates finds 2-choice sets whose first choice's
// single-choice odds lie in first and whose second choice's single-choice
// odds lie in secondAsFirst. Legs are (first, secondAsFirst).
func (r *SQLiteWinsRepository) FindSecondChoiceCandidates(ctx context.Context, first, secondAsFirst models.Window) ([]models.Candidate, error) {
	query := `
		SELECT c1.avgodds, c2.avgodds, w.avgodds
		FROM wins w
		JOIN wins c2 ON c2.choicenum = 1 AND c2.zoneid1 = w.zoneid2 AND c2.dateid1 = w.dateid2
		JOIN wins c1 ON c1.choicenum = 1 AND c1.zoneid1 = w.zoneid1 AND c1.dateid1 = w.dateid1
		WHERE w.choicenum = 2
			AND c1.avgodds > ? AND c1.avgodds < ?
			AND c2.avgodds > ? AND c2.avgodds < ?
		ORDER BY w.rowid, c1.rowid, c2.rowid
	`

	rows, err := r.store.Query(ctx, query, first.Low, first.High, secondAsFirst.Low, secondAsFirst.High)
	if err != nil {
		return nil, fmt.Errorf("failed to query second choice candidates: %w", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		var c1, c2, set float64
		if err := rows.Scan(&c1, &c2, &set); err != nil {
			return nil, fmt.Errorf("failed to scan second choice candidate: %w", err)
		}
		out = append(out, models.Candidate{Legs: []float64{c1, c2}, AvgOdds: set})
	}
	return out, rows.Err()
}

// FindThirdChoiceCandidates finds 3-choice sets whose first choice's
// single-choice odds lie in first, whose leading 2-choice set odds lie in
// secondSet, and whose third choice's single-choice odds lie in thirdAsFirst.
// Legs are (first, secondSet, thirdAsFirst).
func (r *SQLiteWinsRepository) FindThirdChoiceCandidates(ctx context.Context, first, secondSet, thirdAsFirst models.Window) ([]models.Candidate, error) {
	query := `
		SELECT c1.avgodds, w2.avgodds, c3.avgodds, w.avgodds
		FROM wins w
		JOIN wins c3 ON c3.choicenum = 1 AND c3.zoneid1 = w.zoneid3 AND c3.dateid1 = w.dateid3
		JOIN wins w2 ON w2.choicenum = 2
			AND w2.zoneid1 = w.zoneid1 AND w2.dateid1 = w.dateid1
			AND w2.zoneid2 = w.zoneid2 AND w2.dateid2 = w.dateid2
		JOIN wins c1 ON c1.choicenum = 1 AND c1.zoneid1 = w.zoneid1 AND c1.dateid1 = w.dateid1
		WHERE w.choicenum = 3
			AND c1.avgodds > ? AND c1.avgodds < ?
			AND w2.avgodds > ? AND w2.avgodds < ?
			AND c3.avgodds > ? AND c3.avgodds < ?
		ORDER BY w.rowid, w2.rowid, c1.rowid, c3.rowid
	`

	rows, err := r.store.Query(ctx, query,
		first.Low, first.High,
		secondSet.Low, secondSet.High,
		thirdAsFirst.Low, thirdAsFirst.High,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query third choice candidates: %w", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		var c1, w2, c3, set float64
		if err := rows.Scan(&c1, &w2, &c3, &set); err != nil {
			return nil, fmt.Errorf("failed to scan third choice candidate: %w", err)
		}
		out = append(out, models.Candidate{Legs: []float64{c1, w2, c3}, AvgOdds: set})
	}
	return out, rows.Err()
}
