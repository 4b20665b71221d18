package csvfile

import (
	"math"
	"strings"
	"testing"
)

const sampleCSV = `player_id,first_name,last_name,position,team_id,team_abbreviation,game_id,game_date,season,postseason,home_away,min,pts,reb,oreb,dreb,ast,stl,blk,turnover,pf,fgm,fga,fg_pct,fg3m,fg3a,fg3_pct,ftm,fta,ft_pct
237,LeBron,James,F,14,LAL,1001,2024-01-15,2023,false,home,36:30,28,8,1,7,11,1,1,4,2,10,21,0.476,2,6,0.333,6,7,0.857
115,Stephen,Curry,G,10,GSW,1001,2024-01-15,2023,false,away,34:00,31,5,0,5,6,2,0,3,1,11,22,0.5,7,14,0.5,2,2,1.0
42,Nikola,Jokic,C,8,DEN,1002,2024-01-16,2023,false,home,,26,12,3,9,9,1,1,2,3,10,18,,0,2,0.0,6,8,0.75
`

func TestParse(t *testing.T) {
	result, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(result.Rows))
	}
	if result.ColumnCount != 30 {
		t.Fatalf("expected 30 columns, got %d", result.ColumnCount)
	}
	if result.SkippedRows != 0 {
		t.Fatalf("expected no skipped rows, got %d", result.SkippedRows)
	}

	lebron := result.Rows[0]
	if lebron.PlayerID != 237 || lebron.GameID != 1001 {
		t.Fatalf("unexpected identity: %+v", lebron)
	}
	if !lebron.Home {
		t.Fatal("expected home game")
	}
	if math.Abs(lebron.MinutesPlayed-36.5) > 1e-9 {
		t.Fatalf("minutes = %v, want 36.5", lebron.MinutesPlayed)
	}
	if lebron.Points != 28 || lebron.Assists != 11 {
		t.Fatalf("unexpected stat line: %+v", lebron)
	}
	if lebron.GameDate.Year() != 2024 || lebron.Season != 2023 {
		t.Fatalf("unexpected date/season: %v %d", lebron.GameDate, lebron.Season)
	}

	curry := result.Rows[1]
	if curry.Home {
		t.Fatal("expected away game")
	}

	jokic := result.Rows[2]
	if !jokic.MissingField("min") {
		t.Fatal("blank minutes must be marked missing")
	}
	if !jokic.MissingField("fg_pct") {
		t.Fatal("blank fg_pct must be marked missing")
	}
}

func TestParseRecordsMissingUnderCanonicalNames(t *testing.T) {
	csv := "player_id,game_id,points,rebounds,assists,minutes\n" +
		"1,100,,7,,\n"

	result, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := result.Rows[0]
	for _, name := range []string{"pts", "ast", "min"} {
		if !row.MissingField(name) {
			t.Fatalf("blank %s column not recorded under canonical name: %v", name, row.Missing)
		}
	}
	if row.MissingField("reb") {
		t.Fatal("populated rebounds column marked missing")
	}
	if row.MissingField("points") || row.MissingField("minutes") {
		t.Fatalf("missing flags recorded under alias names: %v", row.Missing)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	csv := "player_id,game_id,pts\n" +
		"1,100,25\n" +
		"not-a-number,101,12\n" +
		"2,102,abc\n" +
		"3,103\n" +
		"4,104,18\n"

	result, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.SkippedRows != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", result.SkippedRows)
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	if _, err := Parse(strings.NewReader("player_id,game_id,pts\n")); err == nil {
		t.Fatal("expected error when no rows parse")
	}
}

func TestParseMissingIdentityColumns(t *testing.T) {
	if _, err := Parse(strings.NewReader("pts,reb\n10,5\n")); err == nil {
		t.Fatal("expected error for missing identity columns")
	}
}

func TestParseMinutesFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"30:00", 30},
		{"12:45", 12.75},
		{"28.5", 28.5},
	}
	for _, tc := range cases {
		got, err := parseMinutes(tc.raw)
		if err != nil {
			t.Fatalf("parseMinutes(%q): %v", tc.raw, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("parseMinutes(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}

	if _, err := parseMinutes("12:75"); err == nil {
		t.Fatal("expected error for out-of-range seconds")
	}
}
