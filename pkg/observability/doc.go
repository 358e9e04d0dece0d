/*
Package observability provides tools for monitoring the state-tree engine.

It includes hook merging so logging, metrics and event streams can share
one engine, and a tree-event stream for real-time consumers like SSE
handlers and the CLI watch loop.
*/
package observability
