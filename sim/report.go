package sim

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inference-sim/memsim/sim/trace"
)

// TextReporter prints snapshots in a human-readable block.
type TextReporter struct {
	w io.Writer
	p *message.Printer
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w, p: message.NewPrinter(language.English)}
}

// Report prints one snapshot.
func (r *TextReporter) Report(st Statistics) error {
	p := r.p
	_, err := p.Fprintf(r.w, "\nStatistics for %d allocations\n---------------------------------\n"+
		"Time: %d\n"+
		"Allocations: %d\n"+
		"Releases: %d\n"+
		"Free blocks: %d\n"+
		"Allocated blocks: %d\n"+
		"Total size of free blocks: %d\n"+
		"Total size of allocated blocks: %d\n"+
		"Average size of free blocks: %.2f\n"+
		"Average size of allocated blocks: %.2f\n"+
		"Number of requests that could be met: %d\n"+
		"Percentage of free memory unusable: %.2f\n",
		st.Allocations, st.Clock, st.Allocations, st.Releases,
		st.FreeBlocks, st.AllocatedBlocks, st.TotalFree, st.TotalAllocated,
		st.AvgFree, st.AvgAllocated, st.SatisfiableRequests, st.UnusableFreePct)
	return err
}

// PrintOutOfMemory prints the failed request and every free block.
func (r *TextReporter) PrintOutOfMemory(rep *OutOfMemoryReport) error {
	if _, err := r.p.Fprintf(r.w, "Request of size %d could not be honored at time %d\n", rep.RequestSize, rep.Clock); err != nil {
		return err
	}
	for _, b := range rep.FreeBlocks {
		if _, err := r.p.Fprintf(r.w, "Size of free block %d: %d\n", b.Ordinal, b.Size); err != nil {
			return err
		}
	}
	return nil
}

// PrintTrace prints each recorded event on its own line.
func (r *TextReporter) PrintTrace(st *trace.SimulationTrace) error {
	if st == nil {
		return nil
	}
	for _, ev := range st.Events {
		if _, err := r.p.Fprintln(r.w, ev.String()); err != nil {
			return err
		}
	}
	return nil
}

// JSONReporter writes one JSON object per snapshot, newline-delimited.
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter returns a JSONReporter writing to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// Report writes one snapshot.
func (r *JSONReporter) Report(st Statistics) error {
	jw := jwriter.NewWriter()
	obj := jw.Object()
	obj.Name("type").String("statistics")
	writeStatistics(&obj, st)
	obj.End()
	return r.flush(&jw)
}

// PrintOutOfMemory writes the failed request and every free block.
func (r *JSONReporter) PrintOutOfMemory(rep *OutOfMemoryReport) error {
	jw := jwriter.NewWriter()
	obj := jw.Object()
	obj.Name("type").String("out_of_memory")
	obj.Name("clock").Int(int(rep.Clock))
	obj.Name("request_size").Int(rep.RequestSize)
	arr := obj.Name("free_blocks").Array()
	for _, b := range rep.FreeBlocks {
		bo := arr.Object()
		bo.Name("ordinal").Int(b.Ordinal)
		bo.Name("address").Int(int(b.Address))
		bo.Name("size").Int(b.Size)
		bo.End()
	}
	arr.End()
	obj.End()
	return r.flush(&jw)
}

// PrintTrace writes one object per recorded event.
func (r *JSONReporter) PrintTrace(st *trace.SimulationTrace) error {
	if st == nil {
		return nil
	}
	for _, ev := range st.Events {
		jw := jwriter.NewWriter()
		obj := jw.Object()
		obj.Name("type").String("event")
		obj.Name("kind").String(string(ev.Kind))
		obj.Name("clock").Int(int(ev.Clock))
		obj.Name("address").Int(ev.Address)
		if ev.Kind == trace.KindAllocation {
			obj.Name("size").Int(ev.Size)
		}
		obj.End()
		if err := r.flush(&jw); err != nil {
			return err
		}
	}
	return nil
}

func (r *JSONReporter) flush(jw *jwriter.Writer) error {
	if err := jw.Error(); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	_, err := r.w.Write(append(jw.Bytes(), '\n'))
	return err
}

func writeStatistics(obj *jwriter.ObjectState, st Statistics) {
	obj.Name("clock").Int(int(st.Clock))
	obj.Name("allocations").Int(st.Allocations)
	obj.Name("releases").Int(st.Releases)
	obj.Name("free_blocks").Int(st.FreeBlocks)
	obj.Name("allocated_blocks").Int(st.AllocatedBlocks)
	obj.Name("total_free").Int(st.TotalFree)
	obj.Name("total_allocated").Int(st.TotalAllocated)
	obj.Name("avg_free").Float64(st.AvgFree)
	obj.Name("avg_allocated").Float64(st.AvgAllocated)
	obj.Name("satisfiable_requests").Int(st.SatisfiableRequests)
	obj.Name("unusable_free_pct").Float64(st.UnusableFreePct)
}
