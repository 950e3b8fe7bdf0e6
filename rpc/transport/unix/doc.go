// Package unix provides a Unix domain socket implementation of the
// backup transport interfaces for masters and backups colocated on
// one machine. Framing and connection handling live in the base
// package.
package unix
