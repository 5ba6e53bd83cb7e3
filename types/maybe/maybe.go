package maybe

import "fmt"

type Maybe[T any] struct {
	value T
	valid bool
}

func Some[T any](value T) Maybe[T] {
	return Maybe[T]{
		value: value,
		valid: true,
	}
}

func None[T any]() Maybe[T] {
	return Maybe[T]{
		valid: false,
	}
}

func (m Maybe[T]) IsValid() bool {
	return m.valid
}

func (m Maybe[T]) Value() T {
	return m.value
}

func (m Maybe[T]) ValueOrDefault(defaultValue T) T {
	if m.valid {
		return m.value
	}
	return defaultValue
}

// Ptr returns nil when there is no value, handy for JSON where null means a gap.
func (m Maybe[T]) Ptr() *T {
	if !m.valid {
		return nil
	}
	v := m.value
	return &v
}

// Map applies fn to the value if there is one.
func Map[T, U any](m Maybe[T], fn func(T) U) Maybe[U] {
	if !m.valid {
		return None[U]()
	}
	return Some(fn(m.value))
}

// Sprintf formats the value with the given verb, or returns dash when there is no value.
func (m Maybe[T]) Sprintf(verb string) string {
	if !m.valid {
		return "-"
	}
	return fmt.Sprintf(verb, m.value)
}
