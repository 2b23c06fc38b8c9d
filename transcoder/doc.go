// Package transcoder converts values to and from the fixed-layout records
// that cross the foreign-call boundary.
//
// The records mirror the C structs declared in capi/jseval.h field for
// field, so a pointer handed over by a C caller can be reinterpreted as a
// Go record without copying:
//
//	jseval_primitive   <-> ArgumentRecord      (56 bytes on 64-bit)
//	jseval_error       <-> ErrorRecord         (16 bytes)
//	jseval_result      <-> ResultRecord        (64 bytes)
//	jseval_heap_stats  <-> HeapSnapshotRecord  (13 size_t counters)
//
// # Decoding
//
// Decoder turns ArgumentRecords into value.Arguments. A record selects its
// variant by the first populated slot in the order
//
//	string -> symbol -> object -> number -> bigint -> bool
//
// Records with more than one populated slot are accepted with a warning,
// or rejected when the decoder is strict. Records with no populated slot
// are always rejected. Text is read up to the terminating NUL and invalid
// UTF-8 is repaired with replacement characters, never rejected.
//
// Decoding copies everything it reads; nothing in a value.Argument points
// back into caller memory.
//
// # Encoding
//
// Encoder writes value.Outcome and value.HeapSnapshot into records
// allocated through a Ledger. Every string field is a separate
// NUL-terminated allocation. A failure part way through encoding frees the
// allocations made so far.
//
// # Ownership
//
// Ledger wraps a jseval.Allocator and remembers every live allocation it
// handed out, with its record type. Release operations consult the ledger
// before touching memory, which makes releasing NULL, releasing twice, or
// releasing a pointer the ledger never produced a no-op. Releasing a result
// also releases its string fields and nested error record.
//
// # Thread Safety
//
// Decoder, Encoder and Ledger are safe for concurrent use. Records are
// plain memory and are not.
package transcoder
