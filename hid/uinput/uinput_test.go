package uinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

type keyEvent struct {
	code  uint16
	value int32
}

// frames splits the written events into SYN-terminated groups of key events.
func frames(t *testing.T, buf *bytes.Buffer) [][]keyEvent {
	t.Helper()
	var out [][]keyEvent
	var cur []keyEvent
	for buf.Len() > 0 {
		var ev inputEvent
		require.NoError(t, binary.Read(buf, binary.LittleEndian, &ev))
		switch ev.Type {
		case evKey:
			cur = append(cur, keyEvent{ev.Code, ev.Value})
		case evSyn:
			out = append(out, cur)
			cur = nil
		default:
			t.Fatalf("unexpected event type %d", ev.Type)
		}
	}
	require.Empty(t, cur, "events after the last SYN_REPORT")
	return out
}

func send(t *testing.T, tr *Transport, keys ...hid.Key) {
	t.Helper()
	var r hid.Report
	r.Set(keys...)
	require.NoError(t, tr.WriteReport(&r))
}

func TestWriteReportDiffs(t *testing.T) {
	var buf bytes.Buffer
	tr := newTransport(&buf)

	send(t, tr, hid.KeyS)
	send(t, tr, hid.KeyS, hid.KeyD)
	send(t, tr, hid.KeyD)
	send(t, tr, hid.KeyJ)
	send(t, tr)
	send(t, tr)

	got := frames(t, &buf)
	require.Len(t, got, 6)
	assert.Equal(t, []keyEvent{{31, 1}}, got[0])
	assert.Equal(t, []keyEvent{{32, 1}}, got[1], "held S produces no event")
	assert.Equal(t, []keyEvent{{31, 0}}, got[2])
	assert.ElementsMatch(t, []keyEvent{{32, 0}, {36, 1}}, got[3])
	assert.Equal(t, []keyEvent{{36, 0}}, got[4])
	assert.Empty(t, got[5], "repeated release is a bare SYN")
}

func TestWriteReportModifiers(t *testing.T) {
	var buf bytes.Buffer
	tr := newTransport(&buf)

	r := hid.Report{Modifiers: hid.ModLeftShift | hid.ModRightGUI}
	require.NoError(t, tr.WriteReport(&r))

	got := frames(t, &buf)
	require.Len(t, got, 1)
	assert.ElementsMatch(t, []keyEvent{{42, 1}, {126, 1}}, got[0])
}

func TestWriteReportUnmapped(t *testing.T) {
	var buf bytes.Buffer
	tr := newTransport(&buf)

	var r hid.Report
	r.Set(hid.KeyA, hid.Key(0x68)) // F13
	err := tr.WriteReport(&r)
	assert.ErrorIs(t, err, pkg.ErrUnmappedKey)

	got := frames(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, []keyEvent{{30, 1}}, got[0], "mapped keys still sent")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("device gone") }

func TestWriteFailureKeepsState(t *testing.T) {
	tr := newTransport(failWriter{})
	var r hid.Report
	r.Set(hid.KeyW)
	require.Error(t, tr.WriteReport(&r))
	assert.Empty(t, tr.held)
}

func TestCloseReleasesHeldKeys(t *testing.T) {
	var buf bytes.Buffer
	tr := newTransport(&buf)
	send(t, tr, hid.KeyA, hid.KeyK)

	require.NoError(t, tr.Close())
	got := frames(t, &buf)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []keyEvent{{30, 0}, {37, 0}}, got[1])

	assert.False(t, tr.Ready())
	var r hid.Report
	assert.ErrorIs(t, tr.WriteReport(&r), pkg.ErrClosed)
	assert.ErrorIs(t, tr.Close(), pkg.ErrClosed)
}

func TestCloseReportsReleaseFailure(t *testing.T) {
	tr := newTransport(failWriter{})

	err := tr.Close()
	assert.ErrorContains(t, err, "device gone")
	assert.False(t, tr.Ready())
	assert.ErrorIs(t, tr.Close(), pkg.ErrClosed)
}

func TestKeymapCoversBindings(t *testing.T) {
	for _, k := range []hid.Key{
		hid.KeyW, hid.KeyA, hid.KeyS, hid.KeyD,
		hid.KeyJ, hid.KeyK, hid.KeySemicolon,
		hid.KeyN, hid.KeyM, hid.KeyComma,
		hid.KeyUp, hid.KeyDown, hid.KeyLeft, hid.KeyRight,
	} {
		_, ok := Code(k)
		assert.True(t, ok, "key %s", k)
	}
}
