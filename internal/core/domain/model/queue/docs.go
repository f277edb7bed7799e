// Package queue models the first-come-first-served courier queue.
//
// An Entry is created when a requester cannot be matched immediately and stays
// Searching until the matcher binds it to a courier (Completed) or it waits
// longer than the configured maximum (Expired). The sequence id assigned by the
// store is the only ordering key: the Searching entry with the smallest id is
// the head of the queue.
package queue
