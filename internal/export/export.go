// Package export writes pass network tables as CSV for graph tools like Gephi.
package export

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-pass-network/internal/model"
)

// EdgeHeader is the column layout of the edge table.
var EdgeHeader = []string{
	"Source", "Target", "pass_category", "Weight", "failed_passes",
	"recovery_interception_pass", "total_passes", "assist_count", "label",
}

// NodeHeader is the column layout of the node metric table.
var NodeHeader = []string{
	"Id", "Label", "out_degree", "in_degree", "degree",
	"weighted_out_degree", "weighted_in_degree", "triangles", "clustering",
}

// WriteEdges writes the header and one row per edge.
func WriteEdges(w io.Writer, edges []model.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EdgeHeader); err != nil {
		return err
	}
	for _, e := range edges {
		label := e.Label
		if label == "" {
			label = string(e.Category)
		}
		if err := cw.Write([]string{
			e.Source,
			e.Target,
			string(e.Category),
			strconv.Itoa(e.Weight),
			strconv.Itoa(e.FailedPasses),
			strconv.Itoa(e.RecoveryInterception),
			strconv.Itoa(e.TotalPasses),
			strconv.Itoa(e.AssistCount),
			label,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNodes writes the node metric table. Id and Label are both the player
// name, which is what Gephi expects for a nodes import.
func WriteNodes(w io.Writer, nodes []model.NodeMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(NodeHeader); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := cw.Write([]string{
			n.Player,
			n.Player,
			strconv.Itoa(n.OutDegree),
			strconv.Itoa(n.InDegree),
			strconv.Itoa(n.Degree),
			strconv.Itoa(n.WeightedOut),
			strconv.Itoa(n.WeightedIn),
			strconv.Itoa(n.Triangles),
			strconv.FormatFloat(n.Clustering, 'f', 6, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes a raw table back to CSV. nil cells are written empty.
func WriteTable(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i := range rec {
			rec[i] = ""
			if i < len(r) && r[i] != nil {
				rec[i] = fmt.Sprint(r[i])
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Create creates path, making parent directories as needed, and compresses
// the output when the name ends in .gz, .zst or .sz.
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".zst"):
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedWriter{Writer: enc, closers: []io.Closer{enc, f}}, nil
	case strings.HasSuffix(path, ".sz"):
		sw := snappy.NewBufferedWriter(f)
		return &stackedWriter{Writer: sw, closers: []io.Closer{sw, f}}, nil
	case strings.HasSuffix(path, ".gz"):
		gz := gzip.NewWriter(f)
		return &stackedWriter{Writer: gz, closers: []io.Closer{gz, f}}, nil
	}
	return f, nil
}

// stackedWriter closes its compressor before the underlying file.
type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteEdgesFile writes the edge table to path.
func WriteEdgesFile(path string, edges []model.Edge) error {
	return writeFile(path, func(w io.Writer) error { return WriteEdges(w, edges) })
}

// WriteNodesFile writes the node metric table to path.
func WriteNodesFile(path string, nodes []model.NodeMetrics) error {
	return writeFile(path, func(w io.Writer) error { return WriteNodes(w, nodes) })
}

// WriteTableFile writes a raw table to path.
func WriteTableFile(path string, t *model.Table) error {
	return writeFile(path, func(w io.Writer) error { return WriteTable(w, t) })
}

func writeFile(path string, write func(io.Writer) error) error {
	w, err := Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(w); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
