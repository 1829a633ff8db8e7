package common

import (
	"os"
)

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

func Reducer[T any, R any](items []T, reduceFn func(R, T) R, initAcc R) R {
	finalAcc := initAcc
	for i := range len(items) {
		finalAcc = reduceFn(finalAcc, items[i])
	}
	return finalAcc
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed value or the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
