package network

import "errors"

var (
	// ErrIndexOutOfRange indicates a species or reaction index outside the network.
	ErrIndexOutOfRange = errors.New("network: index out of range")

	// ErrSentinelIndex indicates an attempt to mutate the reserved index 0.
	ErrSentinelIndex = errors.New("network: index 0 is the reserved sentinel")

	// ErrDimensionMismatch indicates index and value slices of different lengths,
	// or a history row with the wrong number of species.
	ErrDimensionMismatch = errors.New("network: dimension mismatch")

	// ErrEmptyNetwork indicates a network without any species.
	ErrEmptyNetwork = errors.New("network: no species defined")

	// ErrInvalidSpecies indicates a reaction that refers to an unknown species.
	ErrInvalidSpecies = errors.New("network: reaction refers to unknown species")

	// ErrTimeOrder indicates a history append that would move time backwards.
	ErrTimeOrder = errors.New("network: history time must not decrease")
)
