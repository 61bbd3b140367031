// Package reconcile computes and applies keyed list edit scripts.
//
// Diff compares two snapshots of a keyed list and produces a Script of
// removes, inserts and moves. Moves are emitted only for surviving keys
// outside the longest increasing subsequence of their previous positions,
// which is the smallest set of relocations that restores the order.
//
// Apply replays a script against the live working array, resolving each
// insert and move to a "before" neighbor that is already in its final
// position, so callers can translate every patch into a single
// insert-before operation on the output tree.
package reconcile
