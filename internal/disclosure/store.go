package disclosure

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"HedgeMirror/internal/model"
)

// Holding is one raw row of a disclosure file. Numeric fields keep their
// thousands separators; the loader parses them.
type Holding struct {
	Ticker string `csv:"ticker"`
	Class  string `csv:"class"`
	Shares string `csv:"shares"`
	Value  string `csv:"value"`
}

// Snapshot is the content of one filing.
type Snapshot struct {
	Source     string
	FilingDate time.Time
	Holdings   []Holding
}

// Store supplies the periodic snapshots of a single fund.
type Store interface {
	Snapshots(ctx context.Context) ([]Snapshot, error)
}

// headerAliases maps lower-cased 13F export headers to Holding tags.
var headerAliases = map[string]string{
	"sym":          "ticker",
	"symbol":       "ticker",
	"cl":           "class",
	"value ($000)": "value",
}

var requiredColumns = []string{"ticker", "class", "shares", "value"}

// DirStore reads `<fund>_<YYYY-MM-DD>.<ext>` files from a directory.
type DirStore struct {
	Dir string
	Ext string // defaults to ".csv"
}

// NewDirStore creates a store over dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir, Ext: ".csv"}
}

func (s *DirStore) ext() string {
	if s.Ext == "" {
		return ".csv"
	}
	return s.Ext
}

// Snapshots reads every matching file in the directory, ordered by filing date.
func (s *DirStore) Snapshots(ctx context.Context) ([]Snapshot, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read disclosure dir: %w", err)
	}

	var snaps []Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), s.ext()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date, err := FilingDateFromName(e.Name())
		if err != nil {
			return nil, err
		}
		holdings, err := readHoldings(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{Source: e.Name(), FilingDate: date, Holdings: holdings})
	}

	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].FilingDate.Before(snaps[j].FilingDate) })
	return snaps, nil
}

// FilingDateFromName extracts the date from `<fund>_<YYYY-MM-DD>.<ext>`.
func FilingDateFromName(name string) (time.Time, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return time.Time{}, fmt.Errorf("%w: %s: file name does not encode a filing date", model.ErrDataIntegrity, name)
	}
	date, err := time.Parse("2006-01-02", base[idx+1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: bad filing date: %v", model.ErrDataIntegrity, name, err)
	}
	return date, nil
}

func readHoldings(path string) ([]Holding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	holdings, err := DecodeHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return holdings, nil
}

// DecodeHoldings decodes CSV holdings, lower-casing header names and
// applying the 13F export aliases first.
func DecodeHoldings(r io.Reader) ([]Holding, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	header, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, fmt.Errorf("%w: parse header: %v", model.ErrDataIntegrity, err)
	}
	header = normalizeHeader(header)
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", model.ErrDataIntegrity, missing)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	w.Flush()

	var holdings []*Holding
	if err := gocsv.Unmarshal(io.MultiReader(&buf, br), &holdings); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", model.ErrDataIntegrity, err)
	}

	out := make([]Holding, 0, len(holdings))
	for _, h := range holdings {
		if h != nil {
			out = append(out, *h)
		}
	}
	return out, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		out[i] = h
	}
	return out
}

func missingColumns(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// MemoryStore serves fixed snapshots.
type MemoryStore struct {
	Items []Snapshot
}

func (m *MemoryStore) Snapshots(_ context.Context) ([]Snapshot, error) {
	out := make([]Snapshot, len(m.Items))
	copy(out, m.Items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].FilingDate.Before(out[j].FilingDate) })
	return out, nil
}
