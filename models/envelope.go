package models

import "encoding/json"

// Envelope is the uniform JSON response wrapper returned by every training
// platform endpoint. The business payload is kept raw so each caller can
// decode it into its own shape.
type Envelope struct {
	// Code is the platform status code. See the api package for the
	// success/failure partition.
	Code int `json:"code"`

	// Data carries the endpoint-specific payload. May be absent.
	Data json.RawMessage `json:"data"`

	// Msg is an optional human-readable note attached to failures.
	Msg string `json:"msg"`
}

// Page is the shape of a paginated payload: the items of the current page
// nested under a "list" field. Items stay raw so the pagination helper can
// detect absent or malformed lists without committing to an item type.
type Page struct {
	List json.RawMessage `json:"list"`
}
