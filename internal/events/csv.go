package events

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names of the flat CSV export. Slot columns repeat for p0..p3.
const (
	colEventID   = "event_id"
	colDStarPiID = "dstar_pi_id"
	colCTauMM    = "ctau_mm"
)

func slotCol(slot int, field string) string {
	return fmt.Sprintf("p%d_%s", slot, field)
}

// ReadCSV parses candidate rows from the flat CSV export. The header
// names the columns; order does not matter. The ctau_mm column is
// optional and its absence clears HasCTau on every row.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("events: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	required := []string{colEventID, colDStarPiID}
	for slot := 0; slot < 4; slot++ {
		required = append(required,
			slotCol(slot, "id"), slotCol(slot, "pt"), slotCol(slot, "eta"), slotCol(slot, "phi"))
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("events: missing column %q", name)
		}
	}
	_, hasCTau := idx[colCTauMM]

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("events: line %d: %w", line, err)
		}
		row, err := parseRecord(rec, idx, hasCTau)
		if err != nil {
			return nil, fmt.Errorf("events: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadCSVFile is ReadCSV over the named file.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func parseRecord(rec []string, idx map[string]int, hasCTau bool) (Row, error) {
	var row Row

	u, err := strconv.ParseUint(rec[idx[colEventID]], 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("column %s: %w", colEventID, err)
	}
	row.EventID = u

	id, err := strconv.Atoi(rec[idx[colDStarPiID]])
	if err != nil {
		return Row{}, fmt.Errorf("column %s: %w", colDStarPiID, err)
	}
	row.DStarPiID = id

	for slot := 0; slot < 4; slot++ {
		if row.IDs[slot], err = strconv.Atoi(rec[idx[slotCol(slot, "id")]]); err != nil {
			return Row{}, fmt.Errorf("column %s: %w", slotCol(slot, "id"), err)
		}
		if row.Pt[slot], err = parseFloat(rec, idx, slotCol(slot, "pt")); err != nil {
			return Row{}, err
		}
		if row.Eta[slot], err = parseFloat(rec, idx, slotCol(slot, "eta")); err != nil {
			return Row{}, err
		}
		if row.Phi[slot], err = parseFloat(rec, idx, slotCol(slot, "phi")); err != nil {
			return Row{}, err
		}
	}

	if hasCTau {
		if row.CTauMM, err = parseFloat(rec, idx, colCTauMM); err != nil {
			return Row{}, err
		}
		row.HasCTau = true
	}
	return row, nil
}

func parseFloat(rec []string, idx map[string]int, col string) (float64, error) {
	v, err := strconv.ParseFloat(rec[idx[col]], 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}
