package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Each env helper leaves dst untouched when the variable is unset or does
// not parse.

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func envFloat(key string, dst *float64) {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		*dst = f
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeNumber[T int | float64](dst *T, src T) {
	if src != 0 {
		*dst = src
	}
}

// duration parses a value that validation has already accepted.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func checkDuration(name, s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}
