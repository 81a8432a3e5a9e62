// Package extract recovers structured result records from the text of
// academic result documents.
//
// The input is the full text of one document (already converted from its
// binary form by an external reader). The extractor locates the header
// fields (seat number, semester, exam period) with labeled patterns plus
// positional fallbacks, then runs a line-oriented scan that recovers one
// subject entry per marks row. The scan is a small explicit state machine so
// the awkward cases — multi-line subject names, codes glued to names, marks
// rows separated from their subject line, repeated table-header fragments —
// stay auditable and testable in isolation.
//
// Extraction is pure: no I/O, no concurrency, no shared state.
package extract
