package api

import "time"

// Component identifies the device-side endpoint group a command targets.
type Component string

const (
	// ComponentAI is the appliance-intelligence layer: device status,
	// firmware, push notifications, MAC address and update handling.
	ComponentAI Component = "ai"

	// ComponentHH is the household-gateway layer: categories, commands,
	// programs, eco info, ZH mode and device info.
	ComponentHH Component = "hh"
)

// Shape describes the top-level JSON shape a command expects. Validation
// stops at the top level; per-field optionality is left to the record
// types because the device omits fields freely.
type Shape int

const (
	// ShapeAny performs no shape assertion.
	ShapeAny Shape = iota
	// ShapeObject requires a JSON object.
	ShapeObject
	// ShapeArray requires a JSON array. A JSON null body counts as an
	// empty array; the device answers null where it means "no entries".
	ShapeArray
)

const (
	// DefaultAttempts is the attempt budget for read commands.
	DefaultAttempts = 5

	// DefaultRetryDelay is the initial delay before the first retry.
	// The delay doubles after every failed attempt.
	DefaultRetryDelay = 500 * time.Millisecond

	// writeAttempts is the reduced budget for state-changing commands.
	// A write that keeps failing must surface quickly, and must never be
	// papered over with a default value.
	writeAttempts = 2
)

// Param is a single query parameter. Order is preserved on the wire.
type Param struct {
	Key   string
	Value string
}

// request describes one command invocation against the device. A request
// is built fresh per call and never reused; the cache-busting timestamp
// parameter is appended at send time.
type request[T any] struct {
	component   Component
	name        string
	params      []Param
	raw         bool
	shape       Shape
	rejectEmpty bool
	attempts    int
	retryDelay  time.Duration
	fallback    func() T
}

func newRequest[T any](component Component, name string) request[T] {
	return request[T]{
		component:  component,
		name:       name,
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
	}
}
