package common

import (
	"os"
	"strings"
)

func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

// EnvOrDefault returns the trimmed value of key, or fallback when unset or blank.
func EnvOrDefault(key, fallback string) string {
	if v, found := os.LookupEnv(key); found && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

func Filter[T any](items []T, keepFn func(T) bool) []T {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if keepFn(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func Reducer[T any, R any](items []T, reduceFn func(R, T) R, initAcc R) R {
	finalAcc := initAcc
	for i := range len(items) {
		finalAcc = reduceFn(finalAcc, items[i])
	}
	return finalAcc
}
