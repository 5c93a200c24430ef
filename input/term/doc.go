// Package term simulates the switches with keys typed on a terminal.
//
// The terminal is put in raw mode and a background goroutine turns each key
// into a short low pulse on the matching line: by default keys 1 to 5 drive
// switches 0 to 4. The pulse outlasts the debounce window, and terminal
// auto-repeat keeps a line low while its key is held. Ctrl-C and q call the
// interrupt hook, since raw mode stops the terminal from raising SIGINT.
//
//	r, err := term.Open(term.Config{OnInterrupt: cancel})
//	if err != nil {
//	    return err
//	}
//	defer r.Close() // restores the terminal
package term
