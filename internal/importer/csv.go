// Package importer bootstraps the branch_pcs table from the fixed-format
// PC-specs spreadsheet export. The import runs only while the table is
// empty, so it is a one-time seeding concern, not an ongoing interface.
package importer

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mouradf/it-asset-tracker/internal/repository"
)

// headerMarker locates the real header row; the export carries decorative
// rows above it.
const headerMarker = "BRANCH NAME"

// minFields is the number of leading columns a row must carry to be usable.
const minFields = 11

// ImportPCsIfNeeded seeds branch_pcs from csvPath when the table is empty.
// A missing file or a non-empty table is a silent no-op. Returns how many
// rows were inserted.
func ImportPCsIfNeeded(ctx context.Context, repo *repository.PCRepo, csvPath string) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count branch pcs: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read csv: %w", err)
	}
	n, err := importRows(ctx, repo, string(data))
	if err != nil {
		return n, err
	}
	if n > 0 {
		log.Printf("importer: %d PC specs imported from %s", n, csvPath)
	}
	return n, nil
}

// ImportPCs seeds branch_pcs unconditionally from csvPath (the force path
// behind the import-pcs subcommand).
func ImportPCs(ctx context.Context, repo *repository.PCRepo, csvPath string) (int, error) {
	data, err := os.ReadFile(csvPath)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	return importRows(ctx, repo, string(data))
}

func importRows(ctx context.Context, repo *repository.PCRepo, data string) (int, error) {
	lines := nonEmptyLines(data)
	headerIdx := -1
	for i, l := range lines {
		if strings.Contains(l, headerMarker) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return 0, nil
	}

	inserted := 0
	for _, line := range lines[headerIdx+1:] {
		row := ParseLine(line)
		// Malformed or short rows are skipped, not reported.
		if len(row) < minFields || row[0] == "" {
			continue
		}
		pc := repository.BranchPC{
			BranchName:  row[0],
			City:        row[1],
			BranchCode:  row[2],
			DesktopName: row[3],
			PCNumber:    row[4],
			Motherboard: row[5],
			Processor:   row[6],
			Storage:     row[7],
			RAM:         row[8],
			PSU:         row[9],
			Monitor:     row[10],
		}
		if err := repo.Create(ctx, &pc); err != nil {
			return inserted, fmt.Errorf("insert pc row: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// ParseLine splits one CSV line. A field wrapped in double quotes is taken
// verbatim including interior commas; unquoted fields are runs of
// non-comma characters, so empty unquoted fields between commas are
// dropped. Every field is trimmed of surrounding whitespace. These are the
// exact semantics the spreadsheet rows were written against, which is why
// encoding/csv (strict quoting, empty fields preserved) is not used here.
func ParseLine(line string) []string {
	fields := []string{}
	for i := 0; i < len(line); {
		switch line[i] {
		case ',':
			i++
		case '"':
			end := strings.IndexByte(line[i+1:], '"')
			if end == -1 {
				fields = append(fields, strings.TrimSpace(line[i+1:]))
				i = len(line)
				break
			}
			fields = append(fields, strings.TrimSpace(line[i+1:i+1+end]))
			i += end + 2
		default:
			end := strings.IndexByte(line[i:], ',')
			if end == -1 {
				end = len(line) - i
			}
			fields = append(fields, strings.TrimSpace(line[i:i+end]))
			i += end
		}
	}
	return fields
}

func nonEmptyLines(data string) []string {
	raw := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
