package gamekit

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAnimatableProperty rejects a tween whose target map names no
	// usable property of the entity.
	ErrNoAnimatableProperty = errors.New("gamekit: no animatable property")

	// ErrDetached rejects operations that need an owning Core on an entity
	// that has not been attached to a layer yet.
	ErrDetached = errors.New("gamekit: entity is not attached to a core")

	// ErrDestroyed rejects a tween or animation whose entity was destroyed
	// before it finished.
	ErrDestroyed = errors.New("gamekit: entity destroyed")

	// ErrInvalidCoordinates is returned for tile coordinates outside the grid.
	ErrInvalidCoordinates = errors.New("gamekit: invalid coordinates")

	// ErrMalformedAssetName rejects loader requests not in "key:file" form.
	ErrMalformedAssetName = errors.New("gamekit: malformed asset name")

	// ErrUnknownModule rejects fetching a module nobody registered.
	ErrUnknownModule = errors.New("gamekit: unknown module")

	// ErrScrollCancelled rejects a camera scroll replaced by another scroll
	// or a direct position change.
	ErrScrollCancelled = errors.New("gamekit: camera scroll cancelled")

	// ErrUnknownSource is returned when a tile index or atlas key resolves
	// to no configured sprite source.
	ErrUnknownSource = errors.New("gamekit: unknown sprite source")
)

// PanicError carries a value recovered from a panicking tween or entity
// when Config.RecoverPanics is enabled.
type PanicError struct {
	Value any
	Where string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("gamekit: panic in %s: %v", e.Where, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
