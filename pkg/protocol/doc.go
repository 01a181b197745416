// Package protocol is the binary wire format spoken between a live session
// and its remote host.
//
// Server to client traffic carries batches of host-tree mutations recorded
// by pkg/dom. Client to server traffic carries events aimed at a node ID.
//
// # Wire Format
//
// Every message is a frame with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): session setup, carries the mount node ID
//   - FrameEvent (0x01): client event aimed at a node
//   - FramePatches (0x02): sequenced mutation batch
//   - FrameError (0x03): error report
//
// A mutation batch larger than one frame is split across several
// FramePatches frames sharing a sequence number; the last one has FlagFinal.
//
// # Encoding
//
// Integers are protobuf-style varints (zigzag for signed values). Strings are
// varint length-prefixed UTF-8.
package protocol
