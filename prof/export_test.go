package prof_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goocl/goocl"
	"github.com/goocl/goocl/prof"
)

func TestExportImportRoundTrip(t *testing.T) {
	p := calcProfiler(t)

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf, prof.ExportOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Len(t, strings.Split(lines[0], "\t"), 6, "records carry six tab-separated fields")

	infos, err := prof.Import(&buf, prof.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, p.Infos(), infos)
}

func TestExportZeroBase(t *testing.T) {
	p := calcProfiler(t)

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf, prof.ExportOptions{ZeroBase: true}))
	infos, err := prof.Import(&buf, prof.ExportOptions{})
	require.NoError(t, err)

	min := infos[0].Queued
	for _, info := range infos {
		if info.Queued < min {
			min = info.Queued
		}
	}
	assert.Zero(t, min, "the earliest queued instant rebases to zero")
}

func TestExportFileAndImportFile(t *testing.T) {
	p := calcProfiler(t)

	path := filepath.Join(t.TempDir(), "events.tsv")
	require.NoError(t, p.ExportFile(path, prof.ExportOptions{}))

	infos, err := prof.ImportFile(path, prof.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, p.Infos(), infos)
}

func TestImportProfilerRebuilds(t *testing.T) {
	p := calcProfiler(t)

	var buf bytes.Buffer
	require.NoError(t, p.Export(&buf, prof.ExportOptions{}))
	exported := buf.String()

	imported, err := prof.ImportProfiler(&buf, prof.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, p.Infos(), imported.Infos())
	assert.Equal(t, p.Aggregates(), imported.Aggregates())
	assert.Equal(t, p.Overlaps(), imported.Overlaps())
	assert.Equal(t, p.TotalEventsTime(), imported.TotalEventsTime())
	assert.Equal(t, p.EffectiveEventsTime(), imported.EffectiveEventsTime())

	// The imported profiler is calculated and exportable again.
	var again bytes.Buffer
	require.NoError(t, imported.Export(&again, prof.ExportOptions{}))
	assert.Equal(t, exported, again.String())

	err = imported.Calc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already calculated")
}

func TestExportBeforeCalcFails(t *testing.T) {
	p := prof.New()
	var buf bytes.Buffer
	err := p.Export(&buf, prof.ExportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, goocl.ErrInvalidArgument)
}

func TestImportRejectsMalformedRecords(t *testing.T) {
	_, err := prof.Import(strings.NewReader("too\tfew\tfields\n"), prof.ExportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 6")

	infos, err := prof.Import(strings.NewReader("# comment\n\n"), prof.ExportOptions{})
	require.NoError(t, err)
	assert.Empty(t, infos, "comments and blank lines are skipped")
}

func TestWriteSummary(t *testing.T) {
	p := calcProfiler(t)

	var buf bytes.Buffer
	require.NoError(t, p.WriteSummary(&buf))
	out := buf.String()
	assert.Contains(t, out, "Total events time")
	assert.Contains(t, out, "Aggregate times by event")
	assert.Contains(t, out, "upload")
	assert.Contains(t, out, "Event overlaps")
}

func TestStartStopElapsed(t *testing.T) {
	p := prof.New()
	assert.Zero(t, p.Elapsed())

	p.Start()
	time.Sleep(time.Millisecond)
	p.Stop()
	first := p.Elapsed()
	assert.Greater(t, first, time.Duration(0))

	// Stop without a matching Start changes nothing.
	p.Stop()
	assert.Equal(t, first, p.Elapsed())
}
