package position

import (
	"sort"

	"github.com/rxtech-lab/eod-backtest/internal/execution"
	"github.com/rxtech-lab/eod-backtest/internal/types"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

// Registry is a set of positions unique by id.
// Views such as Open or Long return new registries sharing the same positions.
type Registry struct {
	byID map[ID]Position
	ids  []ID
}

func NewRegistry(positions ...Position) *Registry {
	r := &Registry{byID: make(map[ID]Position, len(positions))}
	for _, p := range positions {
		r.Insert(p)
	}

	return r
}

// Insert adds p and reports whether its id was new.
func (r *Registry) Insert(p Position) bool {
	if p == nil {
		return false
	}

	if _, ok := r.byID[p.ID()]; ok {
		return false
	}

	r.byID[p.ID()] = p

	pos := sort.Search(len(r.ids), func(i int) bool { return r.ids[i] > p.ID() })
	r.ids = append(r.ids, 0)
	copy(r.ids[pos+1:], r.ids[pos:])
	r.ids[pos] = p.ID()

	return true
}

// Replace swaps the position stored under p's id.
func (r *Registry) Replace(p Position) error {
	if p == nil {
		return errors.New(errors.ErrCodeRegistryUpdateFailed, "can't replace with a nil position")
	}

	if _, ok := r.byID[p.ID()]; !ok {
		return errors.Newf(errors.ErrCodeRegistryUpdateFailed, "can't replace position %d: not registered", p.ID())
	}

	r.byID[p.ID()] = p

	return nil
}

func (r *Registry) Get(id ID) (Position, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodePositionNotFound, "can't find position %d", id)
	}

	return p, nil
}

func (r *Registry) Len() int {
	return len(r.ids)
}

func (r *Registry) Empty() bool {
	return len(r.ids) == 0
}

// All returns the positions ordered by id.
func (r *Registry) All() []Position {
	out := make([]Position, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}

	return out
}

// Symbols returns the distinct symbols, sorted.
func (r *Registry) Symbols() []string {
	seen := make(map[string]struct{})

	var out []string
	for _, p := range r.byID {
		if _, ok := seen[p.Symbol()]; ok {
			continue
		}

		seen[p.Symbol()] = struct{}{}
		out = append(out, p.Symbol())
	}

	sort.Strings(out)

	return out
}

// BySymbol returns the positions ordered by symbol, then id.
func (r *Registry) BySymbol() []Position {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Symbol() < out[j].Symbol() })

	return out
}

// ByFirstExecution returns the positions ordered by their first execution.
func (r *Registry) ByFirstExecution() []Position {
	return r.orderedBy(Position.FirstExecution)
}

// ByLastExecution returns the positions ordered by their last execution.
func (r *Registry) ByLastExecution() []Position {
	return r.orderedBy(Position.LastExecution)
}

// orderedBy sorts by the execution picked by pick. Positions without executions go last.
func (r *Registry) orderedBy(pick func(Position) (*execution.Execution, error)) []Position {
	type keyed struct {
		p Position
		e *execution.Execution
	}

	items := make([]keyed, 0, len(r.ids))
	for _, p := range r.All() {
		e, err := pick(p)
		if err != nil {
			e = nil
		}

		items = append(items, keyed{p: p, e: e})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].e, items[j].e
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(b)
		}
	})

	out := make([]Position, len(items))
	for i, it := range items {
		out[i] = it.p
	}

	return out
}

func (r *Registry) filter(keep func(Position) bool) *Registry {
	view := NewRegistry()
	for _, id := range r.ids {
		if p := r.byID[id]; keep(p) {
			view.Insert(p)
		}
	}

	return view
}

func (r *Registry) Open() *Registry {
	return r.filter(Position.Open)
}

func (r *Registry) Closed() *Registry {
	return r.filter(Position.Closed)
}

func (r *Registry) Long() *Registry {
	return r.filter(func(p Position) bool { return p.Type() == TypeLong })
}

func (r *Registry) Short() *Registry {
	return r.filter(func(p Position) bool { return p.Type() == TypeShort })
}

func (r *Registry) Strategies() *Registry {
	return r.filter(func(p Position) bool { return p.Type() == TypeStrategy })
}

// Natural returns every non-strategy position.
func (r *Registry) Natural() *Registry {
	return r.filter(func(p Position) bool { return p.Type() != TypeStrategy })
}

func (r *Registry) Symbol(symbol string) *Registry {
	return r.filter(func(p Position) bool { return p.Symbol() == symbol })
}

func (r *Registry) OpenSymbol(symbol string) *Registry {
	return r.filter(func(p Position) bool { return p.Symbol() == symbol && p.Open() })
}

func (r *Registry) ClosedSymbol(symbol string) *Registry {
	return r.filter(func(p Position) bool { return p.Symbol() == symbol && p.Closed() })
}

// Realized is the product of the closed positions' factors, 1 when there are none.
func (r *Registry) Realized(pt types.PriceType) (float64, error) {
	return r.Closed().product(pt)
}

// Unrealized is the product of the open positions' factors, 1 when there are none.
func (r *Registry) Unrealized(pt types.PriceType) (float64, error) {
	return r.Open().product(pt)
}

func (r *Registry) product(pt types.PriceType) (float64, error) {
	acc := 1.0
	for _, p := range r.All() {
		f, err := p.Factor(pt)
		if err != nil {
			return 0, err
		}

		acc *= f
	}

	return acc, nil
}
