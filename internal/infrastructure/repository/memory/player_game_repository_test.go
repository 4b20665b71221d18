package memory

import (
	"context"
	"testing"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
)

func TestPlayerGameRepositoryListCopiesRowMaps(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerGameRepository()

	row := playergame.PlayerGame{
		DatasetID: "ds-1",
		PlayerID:  1,
		GameID:    100,
		Points:    21,
	}
	row.SetMissing("reb")
	row.FlagOutlier("pts")
	if err := repo.InsertBatch(ctx, "ds-1", []playergame.PlayerGame{row}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	listed, err := repo.ListByDataset(ctx, "ds-1")
	if err != nil {
		t.Fatalf("ListByDataset: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 row, got %d", len(listed))
	}
	if !listed[0].MissingField("reb") {
		t.Fatal("expected reb marked missing")
	}

	listed[0].ClearMissing("reb")
	listed[0].SetMissing("ast")
	listed[0].FlagOutlier("min")

	again, err := repo.ListByDataset(ctx, "ds-1")
	if err != nil {
		t.Fatalf("ListByDataset: %v", err)
	}
	if !again[0].MissingField("reb") {
		t.Fatal("stored missing marker lost after mutating a listed row")
	}
	if again[0].MissingField("ast") {
		t.Fatal("mutation of a listed row reached stored state")
	}
	if again[0].OutlierFlags["min"] {
		t.Fatal("outlier flag on a listed row reached stored state")
	}
	if !again[0].OutlierFlags["pts"] {
		t.Fatal("stored outlier flag lost after mutating a listed row")
	}
}
