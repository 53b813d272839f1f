package xmalloc

// ArenaNum is the number of per-size-class shards. Changing it is
// equivalent to forking the ABI: the provenance byte encodes an arena
// index in [0, ArenaNum).
const ArenaNum = 8

// BucketNum is the number of size classes in the bucketed matrix.
const BucketNum = 21

// BucketMin is the smallest allocatable bucket size, in bytes.
const BucketMin = 8

// BucketMax is the largest allocatable bucket size, in bytes. Requests
// larger than this bypass the matrix and are served as large allocations.
const BucketMax = 8192

// SmallPage is the host's page size assumed by the chunk-multiplier
// arithmetic below. It must match the host's actual page size.
const SmallPage = 4096

// AllocChunk is the base mapping size for bucket index 0; larger buckets
// scale this by their chunkMult entry.
const AllocChunk = 1 << 21 // 2 MiB

// HeaderPages is the number of small pages at the front of every bucket
// mapping that are kept eagerly backed (never advised unneeded) because
// the page header lives there.
const HeaderPages = 5

// bitmapWords is sized to cover the worst-case slot count across every
// size class: a bucket-0 page has (2MiB - headerBytes) / (8+5) bytes of
// slots, which is the largest possible slot count, ~159808 slots.
const bitmapWords = 2497

// bucketMetaSize is the number of bytes of provenance header immediately
// preceding a bucketed payload: a 4-byte page-header offset plus a 1-byte
// arena index.
const bucketMetaSize = 5

// largeMetaSize is the number of bytes of provenance header immediately
// preceding a large-allocation payload: an 8-byte mapping length plus a
// 1-byte 0xFF sentinel.
const largeMetaSize = 9

// largeProvenance is the provenance byte written before every large
// allocation's payload.
const largeProvenance byte = 0xFF
