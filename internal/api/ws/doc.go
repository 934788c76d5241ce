// Package ws streams terminal output to WebSocket clients.
//
// Every connection subscribes to the session manager's output fan-out and
// receives one frame per output event:
//
//	{"type": "output", "session_id": 7, "data": "hi\r\n"}
//
// Clients drive sessions with:
//
//	{"type": "input",  "session_id": 7, "data": "ls\n"}
//	{"type": "resize", "session_id": 7, "cols": 120, "rows": 40}
//	{"type": "ping"}
//
// Failures come back as {"type": "error", "session_id": 7, "message": "..."}.
// Frames are JSON encoded with sonic. A slow client misses output rather than
// stalling the sessions it watches.
package ws
