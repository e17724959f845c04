// Package prof derives profiling reports from the event timestamps
// recorded by command queues created with profiling enabled.
//
// Typical use: create a Profiler, add the queues under test, run and
// finish the workload, then Calc once and inspect the aggregates,
// overlaps and per-event times, or export them for later analysis.
package prof

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/goocl/goocl"
)

// EventInfo is the profiling record of one event: its name, the queue
// it ran on and the four device timestamps in nanoseconds.
type EventInfo struct {
	Name   string
	Queue  string
	Queued uint64
	Submit uint64
	Start  uint64
	End    uint64
}

// Aggregate accumulates the device time of all events sharing a name.
type Aggregate struct {
	Name string
	// Time is the summed duration in nanoseconds.
	Time uint64
	// Relative is Time over the total device time of all events.
	Relative float64
}

// Overlap is the total time during which events of two names (possibly
// the same, on different queues) executed simultaneously.
type Overlap struct {
	Name1    string
	Name2    string
	Duration uint64
}

// Profiler gathers the events retained by one or more command queues
// and derives aggregate times and cross-queue overlaps from their
// timestamps.
type Profiler struct {
	queueNames []string
	queues     map[string]*goocl.Queue

	infos      []EventInfo
	aggregates []Aggregate
	overlaps   []Overlap

	totalTime     uint64
	effectiveTime uint64
	baseInstant   uint64

	started time.Time
	elapsed time.Duration

	calced bool
}

// New creates an empty profiler.
func New() *Profiler {
	return &Profiler{queues: make(map[string]*goocl.Queue)}
}

// AddQueue registers a queue under a report name. The profiler holds a
// reference to the queue until Release.
func (p *Profiler) AddQueue(name string, q *goocl.Queue) {
	if _, ok := p.queues[name]; !ok {
		p.queueNames = append(p.queueNames, name)
	} else {
		goocl.ReleaseQuiet(p.queues[name])
	}
	q.Ref()
	p.queues[name] = q
}

// Release drops the profiler's queue references. The derived data
// remains valid.
func (p *Profiler) Release() {
	for _, q := range p.queues {
		goocl.ReleaseQuiet(q)
	}
	p.queues = make(map[string]*goocl.Queue)
}

// Start begins (or resumes) the host wall-clock timer, an optional
// complement to the device timestamps.
func (p *Profiler) Start() {
	p.started = time.Now()
}

// Stop pauses the host wall-clock timer, accumulating the elapsed time.
func (p *Profiler) Stop() {
	if !p.started.IsZero() {
		p.elapsed += time.Since(p.started)
		p.started = time.Time{}
	}
}

// Elapsed returns the accumulated host wall-clock time.
func (p *Profiler) Elapsed() time.Duration {
	return p.elapsed
}

// instant is one end of an event's execution interval.
type instant struct {
	eventID int
	nameID  int
	at      uint64
	start   bool
}

// Calc walks the events of all registered queues and derives the
// profiling data. It runs once per profiler; the queues must have been
// created with profiling enabled and their work finished. On failure
// the profiler is left untouched.
func (p *Profiler) Calc() error {
	if p.calced {
		return errors.WithMessage(goocl.ErrInvalidArgument, "profiling data already calculated")
	}

	for _, queueName := range p.queueNames {
		enabled, err := p.queues[queueName].ProfilingEnabled()
		if err != nil {
			return err
		}
		if !enabled {
			return errors.WithMessagef(goocl.ErrInvalidArgument,
				"queue %q was created without profiling", queueName)
		}
	}

	var infos []EventInfo
	for _, queueName := range p.queueNames {
		for _, e := range p.queues[queueName].Events() {
			info, err := eventInfo(e, queueName)
			if err != nil {
				if errors.Is(err, goocl.ErrInfoUnavailable) {
					continue
				}
				return err
			}
			infos = append(infos, info)
		}
	}

	p.process(infos)
	return nil
}

// Load derives the profiling data from externally gathered records
// instead of live queues, e.g. records read back by Import.
func (p *Profiler) Load(infos []EventInfo) error {
	if p.calced {
		return errors.WithMessage(goocl.ErrInvalidArgument, "profiling data already calculated")
	}
	p.process(infos)
	return nil
}

// process commits a gathered record set: per-event infos, per-name
// aggregates, overlaps and the time totals.
func (p *Profiler) process(infos []EventInfo) {
	nameIDs := make(map[string]int)
	var names []string
	var instants []instant
	aggTime := make(map[int]uint64)
	first := true

	for eventID, info := range infos {
		nameID, ok := nameIDs[info.Name]
		if !ok {
			nameID = len(names)
			nameIDs[info.Name] = nameID
			names = append(names, info.Name)
		}
		p.totalTime += info.End - info.Start
		aggTime[nameID] += info.End - info.Start
		if first || info.Queued < p.baseInstant {
			p.baseInstant = info.Queued
			first = false
		}
		instants = append(instants,
			instant{eventID: eventID, nameID: nameID, at: info.Start, start: true},
			instant{eventID: eventID, nameID: nameID, at: info.End, start: false})
	}
	p.infos = infos

	p.aggregates = make([]Aggregate, 0, len(aggTime))
	for nameID, t := range aggTime {
		relative := 0.0
		if p.totalTime > 0 {
			relative = float64(t) / float64(p.totalTime)
		}
		p.aggregates = append(p.aggregates, Aggregate{
			Name:     names[nameID],
			Time:     t,
			Relative: relative,
		})
	}

	p.calcOverlaps(instants, names)
	p.calced = true
}

func eventInfo(e *goocl.Event, queueName string) (EventInfo, error) {
	info := EventInfo{Queue: queueName, Name: e.FinalName()}
	var err error
	if info.Queued, err = e.QueuedTime(); err != nil {
		return info, err
	}
	if info.Submit, err = e.SubmitTime(); err != nil {
		return info, err
	}
	if info.Start, err = e.StartTime(); err != nil {
		return info, err
	}
	if info.End, err = e.EndTime(); err != nil {
		return info, err
	}
	return info, nil
}

// calcOverlaps sweeps the sorted event instants, tracking the set of
// executing events; when an event ends, the time it shared with each
// still-executing event is charged to the pair of event names.
func (p *Profiler) calcOverlaps(instants []instant, names []string) {
	sort.SliceStable(instants, func(i, j int) bool {
		if instants[i].at != instants[j].at {
			return instants[i].at < instants[j].at
		}
		// Close intervals before opening new ones at the same instant,
		// so back-to-back events do not register a zero overlap pair.
		return !instants[i].start && instants[j].start
	})

	type pair struct{ a, b int }
	orderedPair := func(x, y int) pair {
		if x <= y {
			return pair{x, y}
		}
		return pair{y, x}
	}

	occurring := make(map[int]int)
	overlapStart := make(map[pair]uint64)
	matrix := make(map[pair]uint64)
	var totalOverlap uint64

	for _, inst := range instants {
		if inst.start {
			for otherID := range occurring {
				overlapStart[orderedPair(inst.eventID, otherID)] = inst.at
			}
			occurring[inst.eventID] = inst.nameID
		} else {
			delete(occurring, inst.eventID)
			for otherID, otherNameID := range occurring {
				eff := inst.at - overlapStart[orderedPair(inst.eventID, otherID)]
				matrix[orderedPair(inst.nameID, otherNameID)] += eff
				totalOverlap += eff
			}
		}
	}

	p.overlaps = make([]Overlap, 0, len(matrix))
	for key, duration := range matrix {
		p.overlaps = append(p.overlaps, Overlap{
			Name1:    names[key.a],
			Name2:    names[key.b],
			Duration: duration,
		})
	}
	p.effectiveTime = p.totalTime - totalOverlap
}

// TotalEventsTime returns the summed device time of all events in
// nanoseconds. Time during which two events ran simultaneously is
// counted twice.
func (p *Profiler) TotalEventsTime() uint64 {
	return p.totalTime
}

// EffectiveEventsTime returns the device time in nanoseconds with
// simultaneous execution counted once.
func (p *Profiler) EffectiveEventsTime() uint64 {
	return p.effectiveTime
}

// Infos returns the per-event records sorted by start time.
func (p *Profiler) Infos() []EventInfo {
	out := make([]EventInfo, len(p.infos))
	copy(out, p.infos)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Aggregates returns the per-name aggregate times, longest first.
func (p *Profiler) Aggregates() []Aggregate {
	out := make([]Aggregate, len(p.aggregates))
	copy(out, p.aggregates)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Overlaps returns the pairwise overlap durations, longest first.
func (p *Profiler) Overlaps() []Overlap {
	out := make([]Overlap, len(p.overlaps))
	copy(out, p.overlaps)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration > out[j].Duration
		}
		if out[i].Name1 != out[j].Name1 {
			return out[i].Name1 < out[j].Name1
		}
		return out[i].Name2 < out[j].Name2
	})
	return out
}
