package route

import "errors"

var (
	// ErrTableSealed is returned when the table is mutated after Seal.
	ErrTableSealed = errors.New("route table is sealed")

	// ErrPrefixAlreadyApplied is returned on a second ApplyPrefix call.
	ErrPrefixAlreadyApplied = errors.New("route prefix is already applied")

	// ErrInvalidDefinition is returned for definitions without a path, a
	// routable verb or an invoker.
	ErrInvalidDefinition = errors.New("invalid route definition")
)
