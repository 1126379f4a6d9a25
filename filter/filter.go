// Package filter implements the filter registry and per-invocation chain
// described in spec.md §4.3: a global sorted list of filter classes seeded
// with include/exclude/count, and a chain of instances built per command
// invocation that always terminates in a shared sink (the pager, as the
// engine wires it).
//
// Grounded on yacli.c's filter/filter_inst pair (yacli_add_filter,
// yacli_add_fcmd, yacli_filter_feed_include/exclude/count) and, for the
// streaming byte-run shape, on the buffered in->out channel idiom in
// gwcli's chancacher.ChanCacher.run (data arrives in arbitrary chunks, is
// tested a unit at a time, and forwarded or held).
package filter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/bbonev/yacli/internal/wordmatch"
)

// Sink is the terminus every chain feeds into — the pager, in practice.
// It is not itself a filter class; it has no Params and is never matched
// by name.
type Sink interface {
	Feed(p []byte)
	Done()
}

// Class is a registered filter kind: include, exclude, count, or a
// caller-supplied custom filter.
type Class struct {
	Name      string
	Help      string
	AllowNext bool // false means this filter must be the last in a chain

	// Feed is called with arbitrary byte runs; it decides, using inst's
	// scratch buffer and Params, what (if anything) to forward to
	// inst.Next.
	Feed func(inst *Instance, p []byte)
	// Done flushes any pending partial line and propagates to inst.Next,
	// exactly once, head to tail (spec.md §8 "Filter chain" invariant).
	Done func(inst *Instance)
}

// Instance is one filter in a built chain: a class, its parsed parameter
// text, private scratch space, and the next instance downstream.
type Instance struct {
	Class  *Class
	Params string
	scratch bytes.Buffer
	Next   Sink
}

// Feed streams p through this instance.
func (inst *Instance) Feed(p []byte) {
	inst.Class.Feed(inst, p)
}

// Done finalizes this instance, flushing any buffered partial line.
func (inst *Instance) Done() {
	inst.Class.Done(inst)
}

//#region registry

// Registry is the process-wide sorted list of filter classes.
type Registry struct {
	classes []*Class // sorted by Name
	sink    Sink      // shared tail (the engine's pager), owned by the engine
}

// NewRegistry returns a Registry seeded with the three built-in filters.
func NewRegistry(sink Sink) *Registry {
	r := &Registry{sink: sink}
	_, _ = r.Register(includeClass())
	_, _ = r.Register(excludeClass())
	_, _ = r.Register(countClass())
	return r
}

// Register adds a filter class, failing on a duplicate name.
func (r *Registry) Register(c *Class) (*Class, error) {
	idx := sort.Search(len(r.classes), func(i int) bool { return r.classes[i].Name >= c.Name })
	if idx < len(r.classes) && r.classes[idx].Name == c.Name {
		return nil, fmt.Errorf("filter: duplicate filter word %q", c.Name)
	}
	r.classes = append(r.classes, nil)
	copy(r.classes[idx+1:], r.classes[idx:])
	r.classes[idx] = c
	return c, nil
}

// Names returns the sorted filter class names, for prefix matching.
func (r *Registry) Names() []string {
	names := make([]string, len(r.classes))
	for i, c := range r.classes {
		names[i] = c.Name
	}
	return names
}

// ByName returns the class with an exact name, or nil.
func (r *Registry) ByName(name string) *Class {
	for _, c := range r.classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Match runs the shared prefix-matching algorithm against the registered
// filter names (spec.md §4.3: "matched by prefix with the same completion
// rules as commands").
func (r *Registry) Match(partial string) wordmatch.Result {
	return wordmatch.Match(r.Names(), partial)
}

//#endregion registry

//#region chain

// Chain is a built, per-invocation list of filter instances terminating in
// the registry's shared sink. Filters are appended in parse order (the
// first filter named after "|" sits closest to the command's raw output)
// and linked into a Feed chain only once Build is called, since each
// instance's Next must point at whatever comes after it, not before.
type Chain struct {
	sink    Sink
	pending []*Instance // in parse order; Next is unset until Build
	head    Sink        // set by Build
}

// NewChain returns an empty, unbuilt chain over the registry's shared sink.
func (r *Registry) NewChain() *Chain {
	return &Chain{sink: r.sink, head: r.sink}
}

// Append records class(params) as the next filter in parse order.
func (c *Chain) Append(class *Class, params string) *Instance {
	inst := &Instance{Class: class, Params: params}
	c.pending = append(c.pending, inst)
	return inst
}

// Build links the appended instances tail-to-head (last appended points at
// the shared sink) and returns the chain's entry point — the first filter
// named after "|", or the bare sink if none were appended.
func (c *Chain) Build() Sink {
	next := c.sink
	for i := len(c.pending) - 1; i >= 0; i-- {
		c.pending[i].Next = next
		next = c.pending[i]
	}
	c.head = next
	return c.head
}

// Head returns the entry point new output should Feed into.
func (c *Chain) Head() Sink { return c.head }

// Finish calls Done head-to-tail: the first appended instance's Done flushes
// and calls its Next's Done, and so on down to the shared sink
// (spec.md §8 "done is invoked exactly once per instance per command,
// head-to-tail").
func (c *Chain) Finish() {
	if len(c.pending) == 0 {
		return
	}
	c.pending[0].Done()
}

//#endregion chain

//#region built-ins

func lineBuffered(inst *Instance, p []byte, forward func(line []byte) bool) {
	inst.scratch.Write(p)
	for {
		buf := inst.scratch.Bytes()
		nl := bytes.IndexByte(buf, '\n')
		if nl < 0 {
			break
		}
		line := append([]byte(nil), buf[:nl+1]...)
		rest := append([]byte(nil), buf[nl+1:]...)
		inst.scratch.Reset()
		inst.scratch.Write(rest)
		if forward(line) {
			inst.Next.Feed(line)
		}
	}
}

func flushPartial(inst *Instance, matches func(line []byte) bool) {
	if inst.scratch.Len() == 0 {
		return
	}
	line := append([]byte(nil), inst.scratch.Bytes()...)
	inst.scratch.Reset()
	if matches(line) {
		line = append(line, '\n')
		inst.Next.Feed(line)
	}
}

func includeClass() *Class {
	contains := func(inst *Instance, line []byte) bool {
		return bytes.Contains(line, []byte(inst.Params))
	}
	return &Class{
		Name: "include", Help: "only display lines that contain a pattern", AllowNext: true,
		Feed: func(inst *Instance, p []byte) {
			lineBuffered(inst, p, func(line []byte) bool { return contains(inst, line) })
		},
		Done: func(inst *Instance) {
			flushPartial(inst, func(line []byte) bool { return contains(inst, line) })
			inst.Next.Done()
		},
	}
}

func excludeClass() *Class {
	contains := func(inst *Instance, line []byte) bool {
		return !bytes.Contains(line, []byte(inst.Params))
	}
	return &Class{
		Name: "exclude", Help: "omit lines that contain a pattern", AllowNext: true,
		Feed: func(inst *Instance, p []byte) {
			lineBuffered(inst, p, func(line []byte) bool { return contains(inst, line) })
		},
		Done: func(inst *Instance) {
			flushPartial(inst, func(line []byte) bool { return contains(inst, line) })
			inst.Next.Done()
		},
	}
}

func countClass() *Class {
	return &Class{
		Name: "count", Help: "count the number of output lines", AllowNext: false,
		Feed: func(inst *Instance, p []byte) {
			n := bytes.Count(p, []byte{'\n'})
			if n == 0 {
				return
			}
			total, _ := countState(inst)
			setCountState(inst, total+n)
		},
		Done: func(inst *Instance) {
			total, _ := countState(inst)
			inst.Next.Feed([]byte(fmt.Sprintf("Line count: %d\n", total)))
			inst.Next.Done()
		},
	}
}

// countState/setCountState stash the running tally in the instance's
// scratch buffer as decimal text, so Instance needs no filter-specific
// field beyond the generic scratch space every class shares.
func countState(inst *Instance) (int, bool) {
	s := strings.TrimSpace(inst.scratch.String())
	if s == "" {
		return 0, false
	}
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n, true
}

func setCountState(inst *Instance, n int) {
	inst.scratch.Reset()
	inst.scratch.WriteString(fmt.Sprintf("%d", n))
}

//#endregion built-ins
