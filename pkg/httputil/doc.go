// Package httputil provides the JSON request and response helpers shared by
// the puncta HTTP handlers.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps an error
// to a status through its puncta error code and writes a uniform body:
//
//	{"error": {"code": "INVALID_INPUT", "message": "points: expected array"}}
//
// # Requests
//
// [DecodeJSON] reads a size-limited body, rejects unknown fields and
// trailing data, and reports failures as INVALID_INPUT errors so that
// handlers can pass them straight to [WriteError].
package httputil
