// Package dictmap implements a chained hash map with incremental,
// two-table rehashing: mutations do a bounded amount of migration work
// instead of pausing to rehash the whole table at once.
//
// A Dict holds two tables, ht[0] and ht[1]. Normally only ht[0] is in use;
// once it grows too full, ht[1] is allocated at the next size and
// rehashidx starts walking ht[0] bucket by bucket, relinking each
// bucket's chain into ht[1] on every subsequent mutation. Lookups consult
// both tables while a rehash is in flight; inserts always land in ht[1]
// so ht[0] strictly drains. When rehashidx reaches the end of ht[0], ht[1]
// becomes the new ht[0] and rehashing stops.
//
// Keys and values are opaque to the map; a Type supplies the hash,
// duplication, comparison and destruction callbacks it needs, mirroring
// the vtable-based design this package is built from.
package dictmap
