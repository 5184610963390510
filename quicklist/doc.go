// Package quicklist implements a doubly linked list of ziplist-backed
// nodes, each optionally LZF-class compressed, combining O(1) access at
// both ends with bounded per-node memory.
//
// Every node owns one ziplist. A fill policy bounds how large a node's
// ziplist may grow before an insert spills into a new node (or splits the
// current one); a compression policy keeps the head and tail few nodes
// raw for fast access while compressing interior nodes that are unlikely
// to be touched soon. See WithFill and the other With... options in
// options.go.
package quicklist
