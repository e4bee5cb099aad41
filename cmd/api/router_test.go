package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeStatusHidesErrorDetail(t *testing.T) {
	failing := func(context.Context) error {
		return errors.New("dial tcp 10.0.3.7:5432: connect: connection refused")
	}
	healthy := func(context.Context) error { return nil }

	assert.Equal(t, "error", probeStatus(context.Background(), "database", failing))
	assert.Equal(t, "ok", probeStatus(context.Background(), "redis", healthy))
}
