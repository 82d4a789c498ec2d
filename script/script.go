package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
)

// World is the view of a world a script is allowed to touch. A world
// attaches itself here; scripts never receive the owning aggregate
// directly.
type World interface {
	Name() string
	Size() cp.Vector
	EntityCount() int
}

// Script wraps a compiled tengo program. A script source must define
// two functions:
//
//	start := func(world) { ... }
//	update := func(world) { ... }
//
// start runs once before the first update; update runs every tick while
// the script is attached to a world. Setting the injected global `done`
// to true asks the owning world to detach the script at the end of the
// tick.
//
// Top-level declarations are re-evaluated on every tick, so state that
// must survive between ticks belongs in the injected `state` map.
type Script struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map

	world   World
	started bool
	done    bool
	failed  bool
}

const lifecycleDispatch = `
if __phase == "start" {
	start(__world)
} else if __phase == "update" {
	update(__world)
}
`

// Compile builds a script from tengo source.
func Compile(name string, src []byte) (*Script, error) {
	program := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+lifecycleDispatch)...))
	_ = program.Add("__phase", "")
	_ = program.Add("__world", map[string]any{})
	_ = program.Add("done", false)
	_ = program.Add("state", map[string]any{})
	program.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := program.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	return &Script{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Name returns the script's registry name.
func (s *Script) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// SetWorld records the script's current world. Passing nil detaches it.
func (s *Script) SetWorld(w World) {
	if s == nil {
		return
	}
	s.world = w
}

// World returns the script's current world, or nil when detached. The
// owning world compares this by identity to detect stale attachment.
func (s *Script) World() World {
	if s == nil {
		return nil
	}
	return s.world
}

// Update runs one tick of the script. The first call runs the start
// phase before the update phase. A runtime error is logged, suppresses
// every later phase run, and makes the script report done so the world
// detaches it.
func (s *Script) Update() {
	if s == nil || s.compiled == nil || s.failed || s.world == nil {
		return
	}
	if !s.started {
		s.started = true
		if !s.runPhase("start") {
			return
		}
	}
	if !s.runPhase("update") {
		return
	}
	s.done = s.compiled.Get("done").Bool()
}

// IsDone reports whether the script asked to be detached, either by
// setting done or by failing at runtime.
func (s *Script) IsDone() bool {
	if s == nil {
		return true
	}
	return s.done || s.failed
}

// Var returns a script global by name, for inspection after a run.
func (s *Script) Var(name string) *tengo.Variable {
	if s == nil || s.compiled == nil {
		return nil
	}
	return s.compiled.Get(name)
}

func (s *Script) runPhase(phase string) bool {
	if err := s.compiled.Set("__phase", phase); err != nil {
		log.Printf("script %s: set phase: %v", s.name, err)
		s.failed = true
		return false
	}
	if err := s.compiled.Set("__world", s.worldEnv()); err != nil {
		log.Printf("script %s: set world: %v", s.name, err)
		s.failed = true
		return false
	}
	if err := s.compiled.Set("state", s.state); err != nil {
		log.Printf("script %s: set state: %v", s.name, err)
		s.failed = true
		return false
	}
	if err := s.compiled.Run(); err != nil {
		log.Printf("script %s: %s phase error: %v", s.name, phase, err)
		s.failed = true
		return false
	}
	return true
}

// worldEnv builds the immutable function table handed to the script for
// one phase run. Every function closes over the current world reference
// and degrades to defaults while detached.
func (s *Script) worldEnv() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["name"] = &tengo.UserFunction{Name: "name", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.world == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: s.world.Name()}, nil
	}}

	values["size"] = &tengo.UserFunction{Name: "size", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.world == nil {
			return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: 0}, &tengo.Float{Value: 0}}}, nil
		}
		size := s.world.Size()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: size.X}, &tengo.Float{Value: size.Y}}}, nil
	}}

	values["entity_count"] = &tengo.UserFunction{Name: "entity_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.world == nil {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(s.world.EntityCount())}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		msg, _ := tengo.ToString(args[0])
		log.Printf("script %s: %s", s.name, msg)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}
