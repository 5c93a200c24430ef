package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/hid/fifo"
)

func TestModifierNames(t *testing.T) {
	assert.Empty(t, modifierNames(0))
	assert.Equal(t, []string{"LShift", "RWin"}, modifierNames(hid.ModLeftShift|hid.ModRightGUI))
}

func TestMonitorLimit(t *testing.T) {
	dir := t.TempDir()
	r, err := fifo.OpenReader(dir)
	require.NoError(t, err)
	defer r.Close()

	tr, err := fifo.Open(dir)
	require.NoError(t, err)
	defer tr.Close()

	kb := hid.NewKeyboard(tr)
	kb.SendKeys(hid.KeyS)
	kb.ReleaseAll()
	kb.SendKeys(hid.KeyJ)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := monitor(ctx, r, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMonitorCancel(t *testing.T) {
	r, err := fifo.OpenReader(t.TempDir())
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	n, err := monitor(ctx, r, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, n)
}
