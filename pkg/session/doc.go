/*
Package session implements saved-session management over snapshot stores.

It provides high-level abstractions for handling concurrent access to saved
tree snapshots across multiple replicas, integrating local lock maps with
distributed locking and long-term storage adapters.
*/
package session
