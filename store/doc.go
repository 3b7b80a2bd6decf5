// Package store provides the persistence backends of the request cache.
//
// A Store maps final cache keys to the encoded bytes of one record. Key-value
// backends (Memory, Memcache, Object, SQL) use the key verbatim; the File
// backend hashes it into a file name. Stores are explicitly opened and closed.
package store
