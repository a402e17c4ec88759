package planar

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StepMode selects how a Driver advances its spaces each tick.
type StepMode uint8

const (
	// StepSequential steps every space inline during the scene update.
	StepSequential StepMode = iota
	// StepParallel steps the spaces on worker goroutines overlapping
	// render; each tick joins the previous step before launching the
	// next, so reads always observe a completed step.
	StepParallel
)

func (m StepMode) String() string {
	if m == StepParallel {
		return "parallel"
	}
	return "sequential"
}

// DriverState tracks the driver lifecycle.
type DriverState uint8

const (
	// DriverUnattached drivers are not bound to a scene yet.
	DriverUnattached DriverState = iota
	// DriverAttached drivers are initialized but not stepping.
	DriverAttached
	// DriverEnabled drivers step their spaces every tick.
	DriverEnabled
)

func (st DriverState) String() string {
	switch st {
	case DriverAttached:
		return "attached"
	case DriverEnabled:
		return "enabled"
	default:
		return "unattached"
	}
}

// Driver owns the stepping of one or more spaces and their teardown.
// Lifecycle: Initialize moves Unattached to Attached, SetEnabled(true)
// starts stepping, SetEnabled(false) pauses, Cleanup tears the spaces
// down and returns to Unattached. Scene.AddDriver initializes and
// Scene.Update drives; a driver can also be driven by hand through
// Update and Flush for headless simulation.
type Driver struct {
	log  *zap.Logger
	mode StepMode

	state  DriverState
	scene  *Scene
	spaces []*Space

	group *errgroup.Group
}

// NewDriver creates a driver for the given spaces.
func NewDriver(cfg Config, mode StepMode, spaces ...*Space) *Driver {
	for _, sp := range spaces {
		if sp == nil {
			panic("planar: nil space")
		}
	}
	return &Driver{
		log:    cfg.logger(),
		mode:   mode,
		spaces: spaces,
	}
}

// Mode returns the stepping mode.
func (d *Driver) Mode() StepMode { return d.mode }

// State returns the lifecycle state.
func (d *Driver) State() DriverState { return d.state }

// Scene returns the scene the driver is attached to, or nil.
func (d *Driver) Scene() *Scene { return d.scene }

// Spaces returns the driven spaces. The returned slice MUST NOT be
// mutated by the caller.
func (d *Driver) Spaces() []*Space { return d.spaces }

// AddSpace adds a space to be driven. Any in-flight parallel step is
// joined first.
func (d *Driver) AddSpace(sp *Space) {
	if sp == nil {
		panic("planar: nil space")
	}
	d.join()
	d.spaces = append(d.spaces, sp)
}

// Initialize attaches the driver. sc may be nil for headless use.
// Panics if the driver is already initialized.
func (d *Driver) Initialize(sc *Scene) {
	if d.state != DriverUnattached {
		panic("planar: driver already initialized")
	}
	d.scene = sc
	d.state = DriverAttached
}

// SetEnabled starts or pauses stepping. Disabling joins any in-flight
// parallel step before returning. Panics if the driver is not
// initialized.
func (d *Driver) SetEnabled(v bool) {
	if d.state == DriverUnattached {
		panic("planar: driver is not initialized")
	}
	if v {
		d.state = DriverEnabled
		return
	}
	d.join()
	d.state = DriverAttached
}

// Enabled reports whether the driver is stepping.
func (d *Driver) Enabled() bool {
	return d.state == DriverEnabled
}

// Update advances one tick: join the previous parallel step (if any),
// then step sequentially or launch the next parallel step. The scene
// calls preUpdate and postUpdate around its own passes instead, so
// gameplay code runs while no step is in flight.
func (d *Driver) Update(dt float64) {
	d.preUpdate(dt)
	d.postUpdate(dt)
}

// preUpdate runs at the top of the scene tick. Sequential mode steps
// here so the tick observes fresh state; parallel mode only joins the
// step launched last tick.
func (d *Driver) preUpdate(dt float64) {
	if d.state != DriverEnabled {
		return
	}
	if d.mode == StepParallel {
		d.join()
		return
	}
	for _, sp := range d.spaces {
		sp.Step(dt)
	}
}

// postUpdate runs after gameplay and behaviors have queued their
// writes; parallel mode launches the next step here, overlapping with
// render.
func (d *Driver) postUpdate(dt float64) {
	if d.state != DriverEnabled || d.mode != StepParallel {
		return
	}
	g := new(errgroup.Group)
	for _, sp := range d.spaces {
		g.Go(func() error {
			sp.Step(dt)
			return nil
		})
	}
	d.group = g
}

// Flush blocks until any in-flight parallel step completes.
func (d *Driver) Flush() {
	d.join()
}

func (d *Driver) join() {
	if d.group != nil {
		_ = d.group.Wait()
		d.group = nil
	}
}

// Cleanup joins any in-flight step, destroys the driven spaces and
// detaches from the scene. No-op when already unattached.
func (d *Driver) Cleanup() {
	if d.state == DriverUnattached {
		return
	}
	d.join()
	for _, sp := range d.spaces {
		sp.Destroy()
	}
	d.log.Debug("driver cleaned up", zap.Int("spaces", len(d.spaces)))
	d.scene = nil
	d.state = DriverUnattached
}
