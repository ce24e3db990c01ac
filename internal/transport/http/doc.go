// Package http implements the HTTP handlers for the order processing
// web service. Handlers stay thin: they parse and validate the request,
// delegate to the service layer and translate service errors into the
// API error vocabulary.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// Long-running work (refreshing the remote listing, running a pipeline)
// goes through the operations manager so progress reaches WebSocket
// clients while the HTTP response carries the final state.
package http
