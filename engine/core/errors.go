package core

import (
	"errors"
)

var (
	ErrSizeMismatch            = errors.New("data length does not match mesh element count")
	ErrInvalidSymmetry         = errors.New("symmetry order must be at least 1")
	ErrUnknownEdge             = errors.New("edge is not part of the mesh")
	ErrDegenerateFace          = errors.New("face has fewer than three distinct vertices")
	ErrInconsistentOrientation = errors.New("faces sharing an edge are wound in the same direction")
	ErrProgramUnavailable      = errors.New("gpu program could not be allocated")
	ErrTraceFailed             = errors.New("field trace failed")
	ErrDuplicateQuantity       = errors.New("quantity with this name already exists")
	ErrInvalidConfig           = errors.New("invalid configuration")
	ErrUnknown                 = errors.New("unknown")
)
