// Package loader reads event CSV exports into a model.Table, optionally
// concatenating several files into one table.
package loader

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-pass-network/internal/model"
)

// SourceFileColumn is added by Load to record which file each row came from.
const SourceFileColumn = "source_file"

// ErrNoFiles is returned when no path or pattern matches an existing file.
var ErrNoFiles = errors.New("no input files matched")

// Open opens path and transparently decompresses .gz, .bz2, .zst and
// framed snappy (.sz) files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".bz2"):
		return wrap(io.NopCloser(bzip2.NewReader(f)), f), nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return wrap(dec.IOReadCloser(), f), nil
	case strings.HasSuffix(path, ".sz"):
		return wrap(io.NopCloser(snappy.NewReader(f)), f), nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return wrap(gz, f), nil
	}
	return f, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func wrap(r io.ReadCloser, f *os.File) io.ReadCloser {
	return &multiCloser{Reader: r, closers: []io.Closer{r, f}}
}

// Read parses CSV from r. The first record is the header. Empty cells become
// nil. A column whose non-empty cells all parse as finite numbers is stored
// as float64; every other column keeps its string values.
func Read(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &model.Table{Columns: header}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", line, err)
		}
		row := make([]any, len(header))
		for i := range row {
			if i < len(rec) && rec[i] != "" {
				row[i] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	for i := range header {
		inferNumeric(t, i)
	}
	return t, nil
}

// inferNumeric converts column i to float64 when every non-nil cell parses.
// A column with no values is left alone.
func inferNumeric(t *model.Table, i int) {
	vals := make([]float64, len(t.Rows))
	seen := false
	for r, row := range t.Rows {
		s, ok := row[i].(string)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return
		}
		vals[r] = f
		seen = true
	}
	if !seen {
		return
	}
	for r, row := range t.Rows {
		if row[i] != nil {
			row[i] = vals[r]
		}
	}
}

// ReadFile reads a single CSV file.
func ReadFile(path string) (*model.Table, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	t, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Expand resolves paths and glob patterns to a sorted, de-duplicated list of
// files.
func Expand(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if matches == nil {
			if _, err := os.Stat(p); err == nil {
				matches = []string{p}
			}
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}

// FileStat reports how many rows each loaded file contributed.
type FileStat struct {
	Path string
	Rows int
}

// Load reads every file matched by patterns and concatenates them. Columns
// are the union of all headers in first-seen order, plus SourceFileColumn;
// a column absent from a file reads as nil on that file's rows.
func Load(patterns ...string) (*model.Table, []FileStat, error) {
	files, err := Expand(patterns...)
	if err != nil {
		return nil, nil, err
	}

	tables := make([]*model.Table, 0, len(files))
	stats := make([]FileStat, 0, len(files))
	for _, f := range files {
		t, err := ReadFile(f)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, t)
		stats = append(stats, FileStat{Path: f, Rows: t.Len()})
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return Concat(tables, names), stats, nil
}

// Concat stacks tables under a union header. When names is non-nil a
// SourceFileColumn holding names[i] is set on the rows of tables[i]; an
// existing column of that name is overwritten.
func Concat(tables []*model.Table, names []string) *model.Table {
	var columns []string
	pos := make(map[string]int)
	add := func(c string) {
		if _, ok := pos[c]; !ok {
			pos[c] = len(columns)
			columns = append(columns, c)
		}
	}
	for _, t := range tables {
		for _, c := range t.Columns {
			add(c)
		}
	}
	if names != nil {
		add(SourceFileColumn)
	}

	out := &model.Table{Columns: columns}
	for ti, t := range tables {
		mapping := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			mapping[i] = pos[c]
		}
		for _, r := range t.Rows {
			row := make([]any, len(columns))
			for i, v := range r {
				if i < len(mapping) {
					row[mapping[i]] = v
				}
			}
			if names != nil {
				row[pos[SourceFileColumn]] = names[ti]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
