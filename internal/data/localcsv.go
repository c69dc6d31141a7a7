package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/strangle-replay/internal/logger"
)

// localCSVDataProvider implements Provider from per-ticker CSV files on disk.
// It reads the export format of the legacy downloader: one file per ticker
// named <TICKER>.csv with a header row and columns date;close;high;low
// (optionally open and volume). Both ';' and ',' separators are accepted,
// and decimal commas are tolerated in semicolon-separated files.
type localCSVDataProvider struct {
	dir string
}

// NewLocalCSVDataProvider convenience constructor.
func NewLocalCSVDataProvider(dir string) Provider {
	return &localCSVDataProvider{dir: dir}
}

func (localCSVDataProv *localCSVDataProvider) GetDailyBars(
	ctx context.Context,
	ticker string,
	from, to time.Time,
) ([]Bar, error) {

	path := filepath.Join(localCSVDataProv.dir, strings.ToUpper(strings.TrimSpace(ticker))+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
		}
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	// Retry comma-separated when the file did not split on ';'.
	if len(records) > 0 && len(records[0]) < 2 {
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
		r = csv.NewReader(f)
		r.FieldsPerRecord = -1
		if records, err = r.ReadAll(); err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
	}

	cols := columnIndex(records)
	var out []Bar
	for i, row := range records {
		if i == 0 || len(row) <= cols.close {
			continue // header or short row
		}
		d, err := parseCSVDate(row[cols.date])
		if err != nil {
			logger.Tracef("skip row %d: %v", i, err)
			continue
		}
		if d.Before(DateOnly(from)) || d.After(DateOnly(to)) {
			continue
		}
		b := Bar{Date: d, Close: parsePrice(row[cols.close])}
		if cols.high >= 0 && cols.high < len(row) {
			b.High = parsePrice(row[cols.high])
		}
		if cols.low >= 0 && cols.low < len(row) {
			b.Low = parsePrice(row[cols.low])
		}
		if cols.open >= 0 && cols.open < len(row) {
			b.Open = parsePrice(row[cols.open])
		}
		if cols.volume >= 0 && cols.volume < len(row) {
			b.Volume = parsePrice(row[cols.volume])
		}
		out = append(out, b)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	return Normalize(out), nil
}

type csvColumns struct {
	date, open, high, low, close, volume int
}

// columnIndex maps the header row to column positions. Files without a
// recognizable header fall back to positional date;close;high;low.
func columnIndex(records [][]string) csvColumns {
	cols := csvColumns{date: 0, close: 1, high: 2, low: 3, open: -1, volume: -1}
	if len(records) == 0 {
		return cols
	}
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "data":
			cols.date = i
		case "close", "fechamento", "adj close":
			cols.close = i
		case "high", "máximo", "maximo", "máxima", "maxima":
			cols.high = i
		case "low", "mínimo", "minimo", "mínima", "minima":
			cols.low = i
		case "open", "abertura":
			cols.open = i
		case "volume":
			cols.volume = i
		}
	}
	return cols
}

func parseCSVDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
