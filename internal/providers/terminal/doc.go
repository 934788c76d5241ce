// Package terminal multiplexes interactive shell sessions over pseudo-terminals.
//
// Each session is identified by a caller-chosen SessionID and owns a PTY
// controlling end plus the shell process attached to its subordinate end.
// Output is relayed continuously to subscribers as OutputEvents; input, resize
// and close requests address the session by id.
//
// Features:
//   - PTY allocation with a fixed initial geometry
//   - Multiple concurrent sessions, one relay goroutine each
//   - Unbuffered keystroke forwarding
//   - Terminal resizing through the retained controlling end
//   - Fan-out of decoded output to any number of subscribers
//
// Architecture:
//   - Registry: one mutex over the id → session table. Presence in the table
//     means the session has not been torn down. The lock covers lookup only;
//     writes and resizes run under per-session locks after it is released.
//   - Relay: blocking reads of the controlling end, decoded through a
//     charset.StreamDecoder and published in read order. A relay reaching
//     end-of-stream marks the session exited but never removes it; only
//     CloseSession removes entries.
//   - Teardown: CloseSession removes the entry, kills the shell and closes the
//     controlling end, which in turn ends the relay and releases any write
//     blocked on a shell that stopped reading.
//
// Lifecycle per id:
//
//	Uninitialized --CreateSession--> Open --CloseSession--> Closed
//
// Creating an id that is already open fails with ErrDuplicateSession and
// leaves the open session untouched.
//
// Example Usage:
//
//	mgr := terminal.NewManager(terminal.DefaultConfig(), logger)
//	events, unsubscribe := mgr.Subscribe()
//	defer unsubscribe()
//
//	if _, err := mgr.CreateSession(7); err != nil {
//	    return err
//	}
//	mgr.WriteInput(7, []byte("echo hi\n"))
//	for ev := range events {
//	    fmt.Print(ev.Data)
//	}
package terminal
