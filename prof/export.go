package prof

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/goocl/goocl"
)

// ExportOptions controls the text layout of exported profiling records.
type ExportOptions struct {
	// Separator between fields. Defaults to a tab.
	Separator string
	// Newline terminates each record. Defaults to "\n".
	Newline string
	// ZeroBase rebases all timestamps so the earliest queued instant
	// becomes zero.
	ZeroBase bool
}

func (o ExportOptions) withDefaults() ExportOptions {
	if o.Separator == "" {
		o.Separator = "\t"
	}
	if o.Newline == "" {
		o.Newline = "\n"
	}
	return o
}

// Export writes the per-event records to w, one record per line with
// the fields name, queue, queued, submit, start and end. Records are
// ordered by start time.
func (p *Profiler) Export(w io.Writer, opts ExportOptions) error {
	if !p.calced {
		return errors.WithMessage(goocl.ErrInvalidArgument, "profiling data not calculated yet")
	}
	opts = opts.withDefaults()
	var base uint64
	if opts.ZeroBase {
		base = p.baseInstant
	}
	bw := bufio.NewWriter(w)
	for _, info := range p.Infos() {
		_, err := fmt.Fprintf(bw, "%s%s%s%s%d%s%d%s%d%s%d%s",
			info.Name, opts.Separator,
			info.Queue, opts.Separator,
			info.Queued-base, opts.Separator,
			info.Submit-base, opts.Separator,
			info.Start-base, opts.Separator,
			info.End-base, opts.Newline)
		if err != nil {
			return errors.Wrap(err, "exporting profiling records")
		}
	}
	return errors.Wrap(bw.Flush(), "exporting profiling records")
}

// ExportFile writes the per-event records to a file; see Export.
func (p *Profiler) ExportFile(path string, opts ExportOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating profiling export %q", path)
	}
	if err := p.Export(f, opts); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing profiling export %q", path)
}

// Import parses records previously written by Export with the same
// separator. Blank lines and lines starting with '#' are skipped.
func Import(r io.Reader, opts ExportOptions) ([]EventInfo, error) {
	opts = opts.withDefaults()
	var infos []EventInfo
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, opts.Separator)
		if len(fields) != 6 {
			return nil, errors.WithMessagef(goocl.ErrInvalidArgument,
				"profiling record on line %d has %d fields, want 6", lineNo, len(fields))
		}
		info := EventInfo{Name: fields[0], Queue: fields[1]}
		for i, dst := range []*uint64{&info.Queued, &info.Submit, &info.Start, &info.End} {
			v, err := strconv.ParseUint(fields[2+i], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "profiling record on line %d", lineNo)
			}
			*dst = v
		}
		infos = append(infos, info)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "importing profiling records")
	}
	return infos, nil
}

// ImportFile parses records from a file; see Import.
func ImportFile(path string, opts ExportOptions) ([]EventInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening profiling export %q", path)
	}
	defer f.Close()
	return Import(f, opts)
}

// ImportProfiler reads records previously written by Export and builds a
// calculated Profiler over them, with aggregates, overlaps and time
// totals rederived from the imported timestamps.
func ImportProfiler(r io.Reader, opts ExportOptions) (*Profiler, error) {
	infos, err := Import(r, opts)
	if err != nil {
		return nil, err
	}
	p := New()
	if err := p.Load(infos); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportProfilerFile builds a calculated Profiler from a file; see
// ImportProfiler.
func ImportProfilerFile(path string, opts ExportOptions) (*Profiler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening profiling export %q", path)
	}
	defer f.Close()
	return ImportProfiler(f, opts)
}
