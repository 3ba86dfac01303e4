// Package websocket pushes dataset reload notifications to open dashboard
// pages.
//
// A single Hub goroutine owns the client set. The dataset store calls
// Hub.OnDatasetEvent after each reload; the hub broadcasts a
// "dataset:reloaded" or "dataset:error" message and the page re-fetches
// its figure.
package websocket
