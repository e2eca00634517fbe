package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTotalsCmd(t *testing.T) {
	out, err := run(t, "totals", "10.00:2", "abc:3")
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal  20.00")
	assert.Contains(t, out, "tax       2.60")
	assert.Contains(t, out, "total     22.60")

	out, err = run(t, "totals")
	require.NoError(t, err)
	assert.Contains(t, out, "total     0.00")
}

func TestWeekCmd(t *testing.T) {
	tests := map[string]string{
		"2023-01-09": "week 1",
		"2023-01-16": "week 2",
		"2023-01-02": "week 0",
	}
	for date, want := range tests {
		out, err := run(t, "week", "--timezone", "America/Toronto", date)
		require.NoError(t, err, date)
		assert.Contains(t, out, want, date)
	}

	_, err := run(t, "week", "01/16/2023")
	assert.Error(t, err)
	_, err = run(t, "week", "--timezone", "Mars/Olympus", "2023-01-09")
	assert.Error(t, err)
}

func TestRemoteCmdsAgainstMemory(t *testing.T) {
	out, err := run(t, "--remote", "memory", "parts", "breaker")
	require.NoError(t, err)
	assert.Contains(t, out, "15A Single Pole Breaker")
	assert.Contains(t, out, "19.99")

	out, err = run(t, "--remote", "memory", "travel", "bram")
	require.NoError(t, err)
	assert.Contains(t, out, "Brampton")
	assert.Contains(t, out, "1h")

	out, err = run(t, "--remote", "memory", "weeks", "Vidy")
	require.NoError(t, err)
	assert.Contains(t, out, "no work orders for Vidy")

	_, err = run(t, "--remote", "memory", "weeks")
	assert.Error(t, err)
}
