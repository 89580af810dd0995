// Package session provides a StateStore that keeps Shared State snapshots
// between client sessions.
//
// [MemoryStore] keeps snapshots in memory and implements
// [agent.StateLister], so a client can resume a thread by ID or continue the
// most recent one.
package session
