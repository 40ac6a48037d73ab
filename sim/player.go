package sim

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/config"
)

var ErrPlayerStopped = errors.New("player is not running")

// Player drives a world on a fixed interval. Every access to the world
// (ticks, commands, resets, observers) happens on the goroutine running
// Run, so callers never need locks around the world.
type Player struct {
	StateChan chan Snapshot

	conf     *config.Config
	world    *World
	playing  atomic.Bool
	running  atomic.Bool
	done     chan struct{}
	commands chan func()
	handlers []TickHandler
}

// NewPlayer builds the first world from conf. Snapshots of every tick are
// offered on StateChan and dropped when nobody keeps up.
func NewPlayer(conf *config.Config) (*Player, error) {
	p := &Player{
		StateChan: make(chan Snapshot, 100),
		conf:      conf,
		done:      make(chan struct{}),
		commands:  make(chan func()),
	}
	p.OnTick(p.sendStateUpdate)
	if err := p.reset(); err != nil {
		return nil, err
	}
	p.playing.Store(conf.Player.Autoplay)
	return p, nil
}

// OnTick registers fn on the current world and on every world created by a
// reset. Once Run has started, call it from within Do.
func (p *Player) OnTick(fn TickHandler) {
	p.handlers = append(p.handlers, fn)
	if p.world != nil {
		p.world.AddTickHandler(fn)
	}
}

func (p *Player) Playing() bool {
	return p.playing.Load()
}

// Run ticks the world until ctx is done. A failed tick pauses playback.
// Run must be called once.
func (p *Player) Run(ctx context.Context) error {
	p.running.Store(true)
	defer close(p.done)

	interval := p.conf.Player.TickInterval.Duration
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-p.commands:
			cmd()
		case <-ticker.C:
			if p.playing.Load() {
				p.step()
			}
		}
	}
}

// Do runs fn against the current world on the player goroutine and waits
// for it to finish.
func (p *Player) Do(ctx context.Context, fn func(w *World) error) error {
	if !p.running.Load() {
		return ErrPlayerStopped
	}
	done := make(chan error, 1)
	cmd := func() { done <- fn(p.world) }
	select {
	case p.commands <- cmd:
	case <-p.done:
		return ErrPlayerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Player) Play() {
	p.playing.Store(true)
	log.Printf("[player] play")
}

func (p *Player) Stop() {
	p.playing.Store(false)
	log.Printf("[player] stop")
}

// Step runs a single tick regardless of the play state.
func (p *Player) Step(ctx context.Context) error {
	return p.Do(ctx, func(*World) error {
		p.step()
		return nil
	})
}

// Reset stops playback and replaces the world with a freshly built one.
func (p *Player) Reset(ctx context.Context) error {
	p.Stop()
	return p.Do(ctx, func(*World) error {
		return p.reset()
	})
}

func (p *Player) reset() error {
	w, err := Build(p.conf)
	if err != nil {
		return errors.Wrap(err, "build world")
	}
	for _, fn := range p.handlers {
		w.AddTickHandler(fn)
	}
	p.world = w
	log.Printf("[player] new world %s: %d dwellers, seed %d", w.RunID, w.DwellersCount(), w.Seed())
	return nil
}

func (p *Player) step() {
	if err := p.world.Tick(); err != nil {
		log.Printf("[player] tick failed, stopping: %v", err)
		p.playing.Store(false)
		return
	}
	if p.conf.Player.StopWhenExtinct && p.world.Population()[Ant] == 0 && p.playing.Load() {
		log.Printf("[player] no ants left at tick %d, stopping", p.world.CurrentTick())
		p.playing.Store(false)
	}
}

func (p *Player) sendStateUpdate(_ int, w *World) {
	select {
	case p.StateChan <- w.Snapshot():
	default:
	}
}
