// Package live serves retained UI trees over websockets.
//
// Each connection gets its own host document and reconciler, driven by the
// reconciler's task loop. The server renders the root component into the
// document body and streams every mutation batch to the client. The client
// maps the body node ID from the hello frame to its mount point and replays
// the batches; it reports events back as FrameEvent frames aimed at node IDs.
//
// # Session Flow
//
//	client                       server
//	  │  GET /live (upgrade)        │
//	  │ ──────────────────────────► │
//	  │  FrameHello{Root}           │
//	  │ ◄────────────────────────── │
//	  │  FramePatches seq=1         │  initial render
//	  │ ◄────────────────────────── │
//	  │  FrameEvent{NodeID, Type}   │
//	  │ ──────────────────────────► │  dispatched on the session loop
//	  │  FramePatches seq=2         │  sent once the loop is idle
//	  │ ◄────────────────────────── │
//
// # Usage
//
//	srv := live.NewServer(cfg, func() *vdom.VNode {
//	    return vdom.H(app, nil)
//	}, live.WithLogger(logger))
//	err := srv.ListenAndServe(ctx)
package live
