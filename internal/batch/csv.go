package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// resultHeader is the column layout of the phase-space CSV export. The
// decay_time_ps field is empty for rows without a measured flight
// distance.
var resultHeader = []string{
	"event_id", "is_d0", "is_rs",
	"m12", "m34", "c12", "c34", "phi",
	"m13", "phi_check_diff",
	"decay_time_ps", "time_bin",
}

// WriteCSV writes the successful results as the flat CSV export.
// Rows carrying a per-event error are skipped; the caller reports them
// via FailedCount.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("batch: write header: %w", err)
	}
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			continue
		}
		rec := []string{
			strconv.FormatUint(r.EventID, 10),
			strconv.FormatBool(r.IsD0),
			strconv.FormatBool(r.IsRS),
			ffloat(r.Point.M12),
			ffloat(r.Point.M34),
			ffloat(r.Point.CosTheta12),
			ffloat(r.Point.CosTheta34),
			ffloat(r.Point.Phi),
			ffloat(r.Point.M13),
			ffloat(r.Point.PhiCheckDiff),
			"",
			strconv.Itoa(r.TimeBin),
		}
		if r.HasTime {
			rec[10] = ffloat(r.DecayTimePS)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("batch: write event %d: %w", r.EventID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("batch: flush: %w", err)
	}
	return nil
}

// WriteCSVFile is WriteCSV into the named file.
func WriteCSVFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses a phase-space CSV export back into results, e.g. for
// the comparison tool. The column order must match WriteCSV.
func ReadCSV(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("batch: read header: %w", err)
	}
	if len(header) != len(resultHeader) {
		return nil, fmt.Errorf("batch: want %d columns, got %d", len(resultHeader), len(header))
	}
	for i, name := range header {
		if name != resultHeader[i] {
			return nil, fmt.Errorf("batch: column %d: want %q, got %q", i, resultHeader[i], name)
		}
	}

	var results []Result
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch: line %d: %w", line, err)
		}
		res, err := parseResult(rec)
		if err != nil {
			return nil, fmt.Errorf("batch: line %d: %w", line, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ReadCSVFile is ReadCSV over the named file.
func ReadCSVFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	defer f.Close()

	results, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

func parseResult(rec []string) (Result, error) {
	var (
		res Result
		err error
	)
	if res.EventID, err = strconv.ParseUint(rec[0], 10, 64); err != nil {
		return Result{}, fmt.Errorf("event_id: %w", err)
	}
	if res.IsD0, err = strconv.ParseBool(rec[1]); err != nil {
		return Result{}, fmt.Errorf("is_d0: %w", err)
	}
	if res.IsRS, err = strconv.ParseBool(rec[2]); err != nil {
		return Result{}, fmt.Errorf("is_rs: %w", err)
	}

	floats := []*float64{
		&res.Point.M12, &res.Point.M34,
		&res.Point.CosTheta12, &res.Point.CosTheta34, &res.Point.Phi,
		&res.Point.M13, &res.Point.PhiCheckDiff,
	}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(rec[3+i], 64); err != nil {
			return Result{}, fmt.Errorf("%s: %w", resultHeader[3+i], err)
		}
	}

	if rec[10] != "" {
		if res.DecayTimePS, err = strconv.ParseFloat(rec[10], 64); err != nil {
			return Result{}, fmt.Errorf("decay_time_ps: %w", err)
		}
		res.HasTime = true
	}
	if res.TimeBin, err = strconv.Atoi(rec[11]); err != nil {
		return Result{}, fmt.Errorf("time_bin: %w", err)
	}
	return res, nil
}

// ffloat formats with the shortest representation that round-trips the
// exact bits, so replayed runs still compare with EqualExact.
func ffloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
