// Package history keeps an optional SQLite ledger of batch runs and the
// outcome of every file they processed.
//
// The ledger is off by default; the processing log in the output directory
// remains the record of truth. When enabled, the batch driver writes one row
// per file so `kmzclean history` can show recent outcomes with their error
// kind and extracted bounding box.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package history
