// Package tcp provides a TCP implementation of the backup transport
// interfaces. It supplies the dial and listen connectors and the TCP
// socket tuning (NoDelay, buffers, keep-alive, linger); framing and
// connection handling live in the base package.
package tcp
