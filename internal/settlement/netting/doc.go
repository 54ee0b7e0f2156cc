// Package netting turns directional coin movements into net positions and a
// reduced set of wire instructions.
//
// The pipeline runs in a single synchronous pass with no I/O:
//
//	NetPositions -> Split -> settleExactMatches -> settleGreedy -> assemble
//
// Equal-magnitude debtor/creditor pairs are settled first with one wire each;
// the residue is swept largest-first with two cursors. The result always
// conserves value and is deterministic for a given movement set, but it is a
// heuristic: the minimum-transaction netting problem is combinatorial and no
// exhaustive search is attempted.
package netting
