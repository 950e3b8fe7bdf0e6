// Package segment defines the on-wire layout of the records a master
// appends to its log segments before replicating them to backups.
//
// A segment is an opaque byte sequence from the transport's point of
// view, but its content is a self-describing run of records, each
// carrying the id and version of the object it stores. Backups walk
// this layout to answer recovery-metadata requests without any shared
// schema beyond this package.
package segment
