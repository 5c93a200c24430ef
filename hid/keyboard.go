package hid

import (
	"github.com/ardnew/movepad/pkg"
)

// Transport delivers keyboard reports to a USB host.
//
// Implementations live in the backend sub-packages (gadget, ch9329, uinput,
// fifo). A Transport is used from a single goroutine.
type Transport interface {
	// Ready returns true if the host has enumerated the keyboard and will
	// accept reports.
	Ready() bool

	// WriteReport transmits one report. The host treats its keys as held
	// until the next report.
	WriteReport(r *Report) error

	// Close releases the backend.
	Close() error
}

// Observer is notified of every report outcome. The metrics package
// implements it.
type Observer interface {
	ReportSent()
	ReportDropped()
	ReportFailed(err error)
}

// Keyboard adapts a Transport to the hold/release vocabulary used by move
// scripts. Every send replaces the entire held-key set.
//
// Sends while the host is not ready are dropped without error: no queue, no
// retry. Transport failures are logged and counted but never returned, so a
// script always runs on its fixed timing.
type Keyboard struct {
	transport Transport
	observer  Observer
	report    Report
}

// NewKeyboard creates a keyboard adapter over t.
func NewKeyboard(t Transport) *Keyboard {
	return &Keyboard{transport: t}
}

// SetObserver sets the report outcome observer. A nil observer disables
// notification.
func (k *Keyboard) SetObserver(o Observer) {
	k.observer = o
}

// Ready returns true if the host is prepared to accept reports.
func (k *Keyboard) Ready() bool {
	return k.transport.Ready()
}

// SendKeys transmits a report holding the first MaxKeys of keys with no
// modifiers. Extra keys are dropped.
func (k *Keyboard) SendKeys(keys ...Key) {
	if !k.transport.Ready() {
		k.dropped(len(keys))
		return
	}
	if n := k.report.Set(keys...); n < len(keys) {
		pkg.LogDebug(pkg.ComponentHID, "key set truncated",
			"requested", len(keys),
			"sent", n,
			"error", pkg.ErrTooManyKeys)
	}
	k.send()
}

// ReleaseAll transmits a report with no keys held.
func (k *Keyboard) ReleaseAll() {
	if !k.transport.Ready() {
		k.dropped(0)
		return
	}
	k.report.Clear()
	k.send()
}

// Close closes the underlying transport.
func (k *Keyboard) Close() error {
	return k.transport.Close()
}

func (k *Keyboard) send() {
	if err := k.transport.WriteReport(&k.report); err != nil {
		pkg.LogWarn(pkg.ComponentHID, "report not delivered",
			"report", k.report.String(),
			"error", err)
		if k.observer != nil {
			k.observer.ReportFailed(err)
		}
		return
	}
	pkg.LogDebug(pkg.ComponentHID, "report sent", "report", k.report.String())
	if k.observer != nil {
		k.observer.ReportSent()
	}
}

func (k *Keyboard) dropped(keys int) {
	pkg.LogDebug(pkg.ComponentHID, "host not ready, report dropped", "keys", keys)
	if k.observer != nil {
		k.observer.ReportDropped()
	}
}
