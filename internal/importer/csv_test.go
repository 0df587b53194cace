package importer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mouradf/it-asset-tracker/internal/database"
	"github.com/mouradf/it-asset-tracker/internal/repository"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "Downtown,Casablanca,DT-01",
			want: []string{"Downtown", "Casablanca", "DT-01"},
		},
		{
			name: "quoted field keeps interior comma",
			line: `Downtown,"ASUS PRIME, rev 2",450W`,
			want: []string{"Downtown", "ASUS PRIME, rev 2", "450W"},
		},
		{
			name: "empty unquoted fields are dropped",
			line: "Downtown,,,450W",
			want: []string{"Downtown", "450W"},
		},
		{
			name: "fields are trimmed",
			line: " Downtown , Casablanca ",
			want: []string{"Downtown", "Casablanca"},
		},
		{
			name: "unterminated quote runs to end of line",
			line: `Downtown,"ASUS PRIME`,
			want: []string{"Downtown", "ASUS PRIME"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseLine(tc.line); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseLine(%q) = %#v, want %#v", tc.line, got, tc.want)
			}
		})
	}
}

func setupPCRepo(t *testing.T) *repository.PCRepo {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewPCRepo(db)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcs.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

const sampleCSV = `BRANCHES PC SPECS,,,,,,,,,,
,,,,,,,,,,
BRANCH NAME,CITY,CODE,DESKTOP NAME,PC N,MOTHERBOARD,PROCESSOR,STORAGE,RAM,PSU,MONITOR
Downtown,Casablanca,DT-01,DT-PC-01,1,"ASUS PRIME, rev 2",Ryzen 5,SSD 256GB,8GB,450W,Dell 22
Airport,Casablanca,AP-02,AP-PC-01,1,Gigabyte B450,i5-9400,HDD 1TB,8GB,500W,HP 21
short row that is skipped,only two fields
"",Casablanca,XX,PC,1,MB,CPU,HDD,8GB,450W,Mon
`

func TestImportPCsIfNeeded(t *testing.T) {
	repo := setupPCRepo(t)
	ctx := context.Background()
	path := writeCSV(t, sampleCSV)

	n, err := ImportPCsIfNeeded(ctx, repo, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d rows, want 2", n)
	}

	pcs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pcs) != 2 {
		t.Fatalf("expected 2 pcs, got %d", len(pcs))
	}
	if pcs[0].Motherboard != "ASUS PRIME, rev 2" {
		t.Fatalf("quoted field mangled: %q", pcs[0].Motherboard)
	}

	// The table is no longer empty, so a second run is a no-op.
	n, err = ImportPCsIfNeeded(ctx, repo, path)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if n != 0 {
		t.Fatalf("second import inserted %d rows, want 0", n)
	}
	if count, _ := repo.Count(ctx); count != 2 {
		t.Fatalf("count after second run = %d, want 2", count)
	}
}

func TestImportPCsIfNeededMissingFile(t *testing.T) {
	repo := setupPCRepo(t)
	n, err := ImportPCsIfNeeded(context.Background(), repo, filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("missing file should be a no-op, got %v", err)
	}
	if n != 0 {
		t.Fatalf("imported %d rows from missing file", n)
	}
}

func TestImportPCsWithoutHeaderMarker(t *testing.T) {
	repo := setupPCRepo(t)
	path := writeCSV(t, "just,some,rows\nwithout,a,header\n")
	n, err := ImportPCs(context.Background(), repo, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 0 {
		t.Fatalf("imported %d rows without header marker, want 0", n)
	}
}
