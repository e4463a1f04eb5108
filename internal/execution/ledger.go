package execution

import (
	"sort"
	"time"

	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Observer is notified synchronously after every execution a ledger records.
type Observer interface {
	OnExecution(e *Execution)
}

// Ledger is the ordered set of executions of one position.
// Executions are unique by id. Secondary orderings by date and side are derived on demand.
type Ledger struct {
	seq       *types.Sequence
	byID      map[ID]*Execution
	ids       []ID
	observers []Observer
}

// NewLedger creates a ledger drawing ids from seq.
// seq is shared by every ledger of a simulation so ids stay unique across positions.
func NewLedger(seq *types.Sequence, observers ...Observer) *Ledger {
	return &Ledger{
		seq:       seq,
		byID:      make(map[ID]*Execution),
		observers: observers,
	}
}

// NewView builds a read-only ledger over existing executions.
func NewView(executions ...*Execution) *Ledger {
	l := NewLedger(nil)
	for _, e := range executions {
		l.Insert(e)
	}

	return l
}

// Record creates an execution with the next id and notifies observers once it is stored.
// No validation happens here; positions validate before recording.
func (l *Ledger) Record(side Side, symbol string, date time.Time, price types.Price, size int) (ID, error) {
	if l.seq == nil {
		return NullID, errors.New(errors.ErrCodeInvalidOperation, "can't record executions on a read-only ledger")
	}

	e := New(side, symbol, ID(l.seq.Next()), date, price, size)
	if !l.Insert(e) {
		return NullID, errors.Newf(errors.ErrCodeExecutionCollision, "execution id %d already recorded", e.ID())
	}

	l.notify(e)

	return e.ID(), nil
}

// Buy records a buy execution.
func (l *Ledger) Buy(symbol string, date time.Time, price types.Price, size int) (ID, error) {
	return l.Record(SideBuy, symbol, date, price, size)
}

// Sell records a sell execution.
func (l *Ledger) Sell(symbol string, date time.Time, price types.Price, size int) (ID, error) {
	return l.Record(SideSell, symbol, date, price, size)
}

// SellShort records a sell short execution.
func (l *Ledger) SellShort(symbol string, date time.Time, price types.Price, size int) (ID, error) {
	return l.Record(SideShort, symbol, date, price, size)
}

// Cover records a cover execution.
func (l *Ledger) Cover(symbol string, date time.Time, price types.Price, size int) (ID, error) {
	return l.Record(SideCover, symbol, date, price, size)
}

// Insert stores e without notifying observers. It returns false when e's id is already present.
func (l *Ledger) Insert(e *Execution) bool {
	if e == nil {
		return false
	}

	if _, ok := l.byID[e.ID()]; ok {
		return false
	}

	l.byID[e.ID()] = e

	pos := sort.Search(len(l.ids), func(i int) bool { return l.ids[i] > e.ID() })
	l.ids = append(l.ids, 0)
	copy(l.ids[pos+1:], l.ids[pos:])
	l.ids[pos] = e.ID()

	return true
}

// Get returns the execution with id.
func (l *Ledger) Get(id ID) (*Execution, bool) {
	e, ok := l.byID[id]

	return e, ok
}

func (l *Ledger) Len() int {
	return len(l.ids)
}

func (l *Ledger) Empty() bool {
	return len(l.ids) == 0
}

// All returns the executions in id order.
func (l *Ledger) All() []*Execution {
	out := make([]*Execution, 0, len(l.ids))
	for _, id := range l.ids {
		out = append(out, l.byID[id])
	}

	return out
}

// ByDate returns the executions in chronological order. Same-day executions keep id order.
func (l *Ledger) ByDate() []*Execution {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })

	return out
}

// BySide returns the executions of one side in id order.
func (l *Ledger) BySide(side Side) []*Execution {
	var out []*Execution

	for _, id := range l.ids {
		if e := l.byID[id]; e.Side() == side {
			out = append(out, e)
		}
	}

	return out
}

// FirstByDate returns the chronologically first execution.
func (l *Ledger) FirstByDate() (*Execution, error) {
	if l.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyLedger, "no executions")
	}

	var first *Execution
	for _, e := range l.byID {
		if first == nil || e.Before(first) {
			first = e
		}
	}

	return first, nil
}

// LastByDate returns the chronologically last execution.
func (l *Ledger) LastByDate() (*Execution, error) {
	if l.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyLedger, "no executions")
	}

	var last *Execution
	for _, e := range l.byID {
		if last == nil || last.Before(e) {
			last = e
		}
	}

	return last, nil
}

// Attach subscribes o to future executions.
func (l *Ledger) Attach(o Observer) {
	if o == nil {
		return
	}

	for _, existing := range l.observers {
		if existing == o {
			return
		}
	}

	l.observers = append(l.observers, o)
}

// Detach removes o from the observers.
func (l *Ledger) Detach(o Observer) {
	for i, existing := range l.observers {
		if existing == o {
			l.observers = append(l.observers[:i], l.observers[i+1:]...)

			return
		}
	}
}

func (l *Ledger) notify(e *Execution) {
	for _, o := range l.observers {
		o.OnExecution(e)
	}
}
