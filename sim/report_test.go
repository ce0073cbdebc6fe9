package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/memsim/sim/memory"
	"github.com/inference-sim/memsim/sim/trace"
)

func TestTextReporter_Report_FormatsSnapshot(t *testing.T) {
	// GIVEN statistics for the fragmented heap
	st, err := ComputeStatistics(fragmentedHeap(t), 120, 3, 1)
	require.NoError(t, err)
	var buf bytes.Buffer

	// WHEN reported as text
	require.NoError(t, NewTextReporter(&buf).Report(st))

	// THEN every line is present, with grouped thousands
	out := buf.String()
	assert.Contains(t, out, "Statistics for 3 allocations")
	assert.Contains(t, out, "Time: 120\n")
	assert.Contains(t, out, "Free blocks: 2\n")
	assert.Contains(t, out, "Allocated blocks: 2\n")
	assert.Contains(t, out, "Total size of free blocks: 1,953\n")
	assert.Contains(t, out, "Total size of allocated blocks: 42\n")
	assert.Contains(t, out, "Average size of free blocks: 976.50\n")
	assert.Contains(t, out, "Average size of allocated blocks: 21.00\n")
	assert.Contains(t, out, "Number of requests that could be met: 1\n")
	assert.Contains(t, out, "Percentage of free memory unusable: 98.92\n")
}

func TestTextReporter_PrintOutOfMemory(t *testing.T) {
	var buf bytes.Buffer
	rep := &OutOfMemoryReport{
		Clock:       77,
		RequestSize: 64,
		FreeBlocks: []memory.FreeBlock{
			{Ordinal: 1, Address: 15, Size: 21},
			{Ordinal: 2, Address: 67, Size: 40},
		},
	}

	require.NoError(t, NewTextReporter(&buf).PrintOutOfMemory(rep))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Request of size 64 could not be honored at time 77",
		"Size of free block 1: 21",
		"Size of free block 2: 40",
	}, lines)
}

func TestJSONReporter_Report_OneObjectPerLine(t *testing.T) {
	// GIVEN two snapshots
	st, err := ComputeStatistics(fragmentedHeap(t), 120, 3, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)

	// WHEN both are reported
	require.NoError(t, r.Report(st))
	require.NoError(t, r.Report(st))

	// THEN the output is newline-delimited JSON with the snapshot fields
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "statistics", got["type"])
	assert.Equal(t, float64(120), got["clock"])
	assert.Equal(t, float64(1953), got["total_free"])
	assert.Equal(t, 976.5, got["avg_free"])
	assert.Equal(t, float64(1), got["satisfiable_requests"])
}

func TestJSONReporter_PrintOutOfMemory(t *testing.T) {
	var buf bytes.Buffer
	rep := &OutOfMemoryReport{
		Clock:       5,
		RequestSize: 99,
		FreeBlocks:  []memory.FreeBlock{{Ordinal: 1, Address: 206, Size: 93}},
	}

	require.NoError(t, NewJSONReporter(&buf).PrintOutOfMemory(rep))

	assert.JSONEq(t,
		`{"type":"out_of_memory","clock":5,"request_size":99,"free_blocks":[{"ordinal":1,"address":206,"size":93}]}`,
		buf.String())
}

func TestReporters_PrintTrace(t *testing.T) {
	// GIVEN a trace with one allocation and one release
	st := trace.NewSimulationTrace(trace.TraceConfig{})
	st.Record(trace.EventRecord{Clock: 0, Kind: trace.KindAllocation, Address: 4, Size: 10})
	st.Record(trace.EventRecord{Clock: 5, Kind: trace.KindRelease, Address: 4})

	// WHEN printed as text
	var text bytes.Buffer
	require.NoError(t, NewTextReporter(&text).PrintTrace(st))

	// THEN each event is one line
	assert.Equal(t,
		"Allocation of size 10 at time 0 to location 4\nRelease memory at location 4 at time 5\n",
		text.String())

	// WHEN printed as JSON
	var js bytes.Buffer
	require.NoError(t, NewJSONReporter(&js).PrintTrace(st))

	// THEN each event is one object and releases carry no size
	lines := strings.Split(strings.TrimSpace(js.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"event","kind":"allocation","clock":0,"address":4,"size":10}`, lines[0])
	assert.JSONEq(t, `{"type":"event","kind":"release","clock":5,"address":4}`, lines[1])
}

func TestReporters_PrintTrace_NilTrace(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, NewTextReporter(&buf).PrintTrace(nil))
	assert.NoError(t, NewJSONReporter(&buf).PrintTrace(nil))
	assert.Empty(t, buf.String())
}
