package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	sql, args, err := Select("id", "name").
		From("datasets").
		Where(Eq("status", "cleaned")).
		OrderBy("loaded_at DESC").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, name FROM datasets WHERE status = $1 ORDER BY loaded_at DESC"
	if sql != want {
		t.Fatalf("sql mismatch:\n got  %s\n want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"cleaned"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	sql, args, err := Select("season").
		From("player_games").
		Where(Eq("dataset_id", int64(3))).
		GroupBy("season").
		OrderBy("season").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT season FROM player_games WHERE dataset_id = $1 GROUP BY season ORDER BY season"
	if sql != want {
		t.Fatalf("sql mismatch:\n got  %s\n want %s", sql, want)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectBuilderRequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	sql, args, err := InsertInto("analysis_reports").
		Columns("dataset_id", "kind").
		Values(int64(1), "eda").
		Values(int64(1), "hypothesis").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "INSERT INTO analysis_reports (dataset_id, kind) VALUES ($1, $2), ($3, $4) RETURNING id"
	if sql != want {
		t.Fatalf("sql mismatch:\n got  %s\n want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{int64(1), "eda", int64(1), "hypothesis"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertBuilderArityMismatch(t *testing.T) {
	_, _, err := InsertInto("datasets").
		Columns("name", "status").
		Values("games").
		ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	sql, args, err := Update("datasets").
		Set("status", "cleaned").
		Set("rows_removed", 12).
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "UPDATE datasets SET status = $1, rows_removed = $2 WHERE id = $3"
	if sql != want {
		t.Fatalf("sql mismatch:\n got  %s\n want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"cleaned", 12, int64(7)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}
