// Package spell implements the operations a spell's host runtime exposes:
// scalar and list KV access, set_json_fields, relay/location, trigger config,
// the log, mailbox and error journals, and script storage.
//
// Every operation takes the caller's ir.CallContext explicitly and returns a
// Result. Writes go through the auth write guard before the store is touched;
// a rejected write leaves storage unchanged. Reads are open to every caller.
//
// Failures never escape as Go errors. Each operation converts them into a
// Result with Success=false and an Error message; reads that find nothing
// return Success=true with Absent=true.
package spell
