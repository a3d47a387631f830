package xmlpatch

import (
	"fmt"
	"log/slog"

	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
)

// Phase orders the queues of a Pipeline.
type Phase int

const (
	PhasePatch Phase = iota
	// PhaseDeferred runs after every PhasePatch operation, including those
	// enqueued while it runs.
	PhaseDeferred
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhasePatch:
		return "patch"
	case PhaseDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func Phases() []Phase {
	return []Phase{PhasePatch, PhaseDeferred}
}

// Stage locates a hook relative to the run of a phase.
type Stage int

const (
	BeforePhase Stage = iota
	AfterPhase
)

func (s Stage) String() string {
	if s == BeforePhase {
		return "before"
	}
	return "after"
}

// Hook is called at a stage of each phase. An error is reported and does
// not stop the pipeline.
type Hook func(p *Pipeline, phase Phase, doc *ir.Node) error

type entry struct {
	op     Operation
	source string
}

// Outcome records the result of one operation or hook. Operations that
// reported false without an error carry ErrNoMatch.
type Outcome struct {
	Phase  Phase
	Op     string
	Source string
	OK     bool
	Err    error
}

type Report struct {
	Outcomes []Outcome
}

func (r *Report) Succeeded() int {
	n := 0
	for i := range r.Outcomes {
		if r.Outcomes[i].OK {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Failures returns the outcomes that did not succeed.
func (r *Report) Failures() []Outcome {
	var res []Outcome
	for _, o := range r.Outcomes {
		if !o.OK {
			res = append(res, o)
		}
	}
	return res
}

// Pipeline applies queued operations to a document phase by phase. It is
// the context through which operations reach later phases.
type Pipeline struct {
	Log *slog.Logger
	Env eval.Env

	queues  [numPhases][]entry
	hooks   map[Stage][]Hook
	report  Report
	running bool
	phase   Phase
}

type PipelineOption func(*Pipeline)

func PipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.Log = l }
}

func PipelineEnv(env eval.Env) PipelineOption {
	return func(p *Pipeline) { p.Env = env }
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{hooks: map[Stage][]Hook{}}
	for _, opt := range opts {
		opt(p)
	}
	if p.Log == nil {
		p.Log = slog.Default()
	}
	return p
}

// Enqueue adds op to the queue of phase. An op enqueued during Run into a
// phase that already ran is not queued; it is reported as failed with
// ErrPhasePassed.
func (p *Pipeline) Enqueue(phase Phase, op Operation, source string) {
	if debug.Pipeline() {
		debug.Logf("enqueue %s from %q in %s phase\n", op, source, phase)
	}
	if p.running && phase < p.phase {
		p.Log.Error("operation enqueued too late", "phase", phase.String(), "running", p.phase.String(), "op", op.String(), "source", source)
		p.report.Outcomes = append(p.report.Outcomes, Outcome{
			Phase:  phase,
			Op:     op.String(),
			Source: source,
			Err:    fmt.Errorf("%w: %s during %s", ErrPhasePassed, phase, p.phase),
		})
		return
	}
	p.queues[phase] = append(p.queues[phase], entry{op: op, source: source})
}

// Pending returns the number of operations waiting in phase.
func (p *Pipeline) Pending(phase Phase) int {
	return len(p.queues[phase])
}

func (p *Pipeline) AddHook(stage Stage, h Hook) {
	p.hooks[stage] = append(p.hooks[stage], h)
}

// Run drains the queues in phase order against doc. Each failure is logged
// and recorded; none stops the run.
func (p *Pipeline) Run(doc *ir.Node) *Report {
	p.running = true
	defer func() { p.running = false }()
	for _, phase := range Phases() {
		p.phase = phase
		p.runHooks(BeforePhase, phase, doc)
		for len(p.queues[phase]) != 0 {
			e := p.queues[phase][0]
			p.queues[phase][0] = entry{}
			p.queues[phase] = p.queues[phase][1:]
			p.runOne(phase, e, doc)
		}
		p.runHooks(AfterPhase, phase, doc)
	}
	return &p.report
}

func (p *Pipeline) runOne(phase Phase, e entry, doc *ir.Node) {
	ctx := &Context{Log: p.Log, Env: p.Env, Pipeline: p, Source: e.source}
	ok, err := e.op.Apply(ctx, doc)
	if debug.Pipeline() {
		debug.Logf("%s phase: %s gave %t, %v\n", phase, e.op, ok, err)
	}
	switch {
	case err != nil:
		p.Log.Error("operation failed", "phase", phase.String(), "op", e.op.String(), "source", e.source, "error", err)
		ok = false
	case !ok:
		p.Log.Error("operation failed", "phase", phase.String(), "op", e.op.String(), "source", e.source)
		err = ErrNoMatch
	}
	p.report.Outcomes = append(p.report.Outcomes, Outcome{
		Phase:  phase,
		Op:     e.op.String(),
		Source: e.source,
		OK:     ok,
		Err:    err,
	})
}

func (p *Pipeline) runHooks(stage Stage, phase Phase, doc *ir.Node) {
	for i, h := range p.hooks[stage] {
		if err := h(p, phase, doc); err != nil {
			name := fmt.Sprintf("%s %s hook %d", stage, phase, i)
			p.Log.Error("hook failed", "hook", name, "error", err)
			p.report.Outcomes = append(p.report.Outcomes, Outcome{Phase: phase, Op: name, Err: err})
		}
	}
}
