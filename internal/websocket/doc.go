// Package websocket pushes dataset reload notifications to connected
// dashboard clients over gorilla/websocket. Clients only receive; the hub
// fans broadcasts out and drops slow consumers.
package websocket
