// Package blobstore abstracts where serialized bitmap snapshots live.
//
// A Store persists immutable named objects. The in-memory store backs
// tests, the local store writes atomically to the file system and reads
// through mmap, and the s3 and minio subpackages target object storage.
// ThrottledStore wraps any Store with a byte-rate budget for shared
// backends.
package blobstore
