// Package backup moves whole gradebooks in and out of the store.
//
// Export writes every collection as one JSON document. Import checks a
// document against an embedded CUE schema before replacing the stored
// collections in a single atomic write, so a rejected or failed import leaves
// the store as it was. LoadSeed reads a human-written YAML file whose records
// refer to each other by name; ApplySeed creates them through the gradebook
// service so the usual validation applies.
package backup
