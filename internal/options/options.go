// Package options implements the functional options of the configurable
// fameport packages.
//
// Each package declares an alias for its own configuration type and builds
// its With* functions on New or NoError:
//
//	type Option = options.Option[*Config]
//
//	func WithPattern(p string) Option {
//	    return options.NoError(func(c *Config) { c.pattern = p })
//	}
package options

// Option configures a value of type T.
type Option[T any] interface {
	apply(T) error
}

type optionFunc[T any] func(T) error

func (f optionFunc[T]) apply(target T) error {
	return f(target)
}

// New wraps fn, whose error is returned by Apply.
func New[T any](fn func(T) error) Option[T] {
	return optionFunc[T](fn)
}

// NoError wraps an fn that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return optionFunc[T](func(target T) error {
		fn(target)
		return nil
	})
}

// When returns opt if cond is true and a nil option otherwise.
func When[T any](cond bool, opt Option[T]) Option[T] {
	if !cond {
		return nil
	}

	return opt
}

// Apply applies opts to target in order and stops at the first error. Nil
// options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
