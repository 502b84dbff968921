package batch

import (
	"context"
	"net/http"
	"runtime"
	"sync"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
)

var ErrEmpty = merry.New("no scenarios").WithHTTPCode(http.StatusBadRequest)

type Input struct {
	Items   []heater.Scenario `json:"items"`
	Workers int               `json:"workers,omitempty"`
}

// Item is the outcome of one scenario. Exactly one of Result and Error is set.
type Item struct {
	Index  int            `json:"index"`
	Name   string         `json:"name,omitempty"`
	Rows   []heater.Row   `json:"rows,omitempty"`
	Result *heater.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`

	err error
}

func (it Item) Err() error { return it.err }

type Output struct {
	Results []Item `json:"results"`
	Failed  int    `json:"failed"`
}

// Runner evaluates scenarios on top of Base with a bounded pool of workers.
type Runner struct {
	Base    heater.ParameterSet
	Lookup  psychro.Lookup
	Workers int
}

func (r Runner) workers(n int) int {
	w := r.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > n {
		w = n
	}
	return w
}

// Run evaluates items concurrently. Results keep the order of items. The
// returned error aggregates the failed items; it does not stop the others.
// Items not started before ctx is done fail with the context error.
func (r Runner) Run(ctx context.Context, items []heater.Scenario) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	out := make([]Item, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := r.workers(len(items)); w > 0; w-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = r.evaluate(ctx, i, items[i])
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var errs *multierror.Error
	for _, it := range out {
		if it.err != nil {
			errs = multierror.Append(errs, merry.Prependf(it.err, "scenario %d %q", it.Index+1, it.Name))
		}
	}
	return out, errs.ErrorOrNil()
}

func (r Runner) evaluate(ctx context.Context, i int, s heater.Scenario) Item {
	it := Item{Index: i, Name: s.Name}
	res, err := r.calculate(ctx, s)
	if err != nil {
		it.err = err
		it.Error = err.Error()
		return it
	}
	it.Result = &res
	it.Rows = res.Rows()
	return it
}

func (r Runner) calculate(ctx context.Context, s heater.Scenario) (heater.Result, error) {
	if err := ctx.Err(); err != nil {
		return heater.Result{}, err
	}
	base := r.Base
	if base == (heater.ParameterSet{}) {
		base = heater.Defaults()
	}
	p, err := s.Apply(base)
	if err != nil {
		return heater.Result{}, err
	}
	return heater.Calculate(p, r.Lookup)
}

// Calculate runs in through r and counts the failures.
func (r Runner) Calculate(ctx context.Context, in Input) (Output, error) {
	if in.Workers > 0 {
		r.Workers = in.Workers
	}
	items, err := r.Run(ctx, in.Items)
	if items == nil {
		return Output{}, err
	}
	out := Output{Results: items}
	for _, it := range items {
		if it.err != nil {
			out.Failed++
		}
	}
	return out, nil
}
