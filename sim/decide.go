package sim

import (
	"sync"
)

// Decider picks at most one action per tick for a dweller. It may update
// self (its memory and food store) but must not keep references to the
// view or anything obtained from it.
type Decider interface {
	Decide(self *Dweller, tick int, view View) (Action, bool)
}

type DeciderFunc func(self *Dweller, tick int, view View) (Action, bool)

func (f DeciderFunc) Decide(self *Dweller, tick int, view View) (Action, bool) {
	return f(self, tick, view)
}

// FoodAI breeds whenever the reproduction rate allows.
type FoodAI struct{}

func (FoodAI) Decide(self *Dweller, tick int, _ View) (Action, bool) {
	if self.CanReproduce(tick) {
		return Breed(self.ID), true
	}
	return Action{}, false
}

// decide runs every dweller's decider for the current tick. Results keep
// the order of ids no matter how the work is spread over the pool.
func (w *World) decide(ids []ID) []Action {
	results := make([]Action, len(ids))
	proposed := make([]bool, len(ids))

	run := func(i int) {
		d, ok := w.registry.Get(ids[i])
		if !ok {
			return
		}
		decider, ok := w.deciders[d.Species]
		if !ok {
			return
		}
		view := &worldView{w: w, self: d.ID}
		results[i], proposed[i] = decider.Decide(d, w.tick, view)
	}

	workers := w.workers
	if workers > len(ids) {
		workers = len(ids)
	}
	if workers <= 1 {
		for i := range ids {
			run(i)
		}
	} else {
		jobs := make(chan int, len(ids))
		for i := range ids {
			jobs <- i
		}
		close(jobs)

		var wg sync.WaitGroup
		for n := 0; n < workers; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					run(i)
				}
			}()
		}
		wg.Wait()
	}

	actions := make([]Action, 0, len(ids))
	for i, ok := range proposed {
		if ok {
			actions = append(actions, results[i])
		}
	}
	return actions
}
