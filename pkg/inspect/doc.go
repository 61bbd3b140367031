// Package inspect serves a live view of a running livetree document
// over HTTP.
//
// Routes:
//
//	GET /               the rendered body as HTML
//	GET /tree           an indented outline of the document
//	GET /text           the text content of the body
//	GET /mutations      recent mutations as JSON (?limit=N)
//	GET /snapshot       the latest settled snapshot as JSON
//	GET /cells/{name}   the current value of a named cell as JSON
//	GET /metrics        Prometheus metrics
//	GET /ws             a websocket receiving a snapshot after every batch
//
// The document is only touched on the event loop that runs the runtime:
// handlers read it through Loop.Do, and snapshots are taken by an
// assertion the inspector registers with the scheduler. Every settled
// snapshot can additionally be written to an Archive (a directory or an
// S3 bucket).
package inspect
