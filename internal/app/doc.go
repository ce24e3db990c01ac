// Package app wires the order processing web service together: it
// loads configuration, opens the supplier store, starts the WebSocket
// hub, builds the service layer and mounts the HTTP routes. The
// Application owns every long-lived resource and releases them in
// Stop.
package app
