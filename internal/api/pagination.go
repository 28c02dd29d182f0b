package api

import (
	"bytes"
	"context"
	"encoding/json"

	"qgxf-trainer/models"
)

// maxPages bounds every pagination loop so a misbehaving server cannot keep
// the client fetching forever.
const maxPages = 1024

// paginate fetches every page of a list endpoint. pageNum (from 1) and
// pageSize are injected into the payload; accumulation stops when a page
// comes back shorter than pageSize, when the "list" field is absent or not a
// list (a defensive stop, not an error), or when maxPages is reached.
func paginate[T any](ctx context.Context, c *Client, path string, payload map[string]any, pageSize int, opts callOpts) ([]T, error) {
	var out []T

	for page := 1; page <= maxPages; page++ {
		body := make(map[string]any, len(payload)+2)
		for k, v := range payload {
			body[k] = v
		}
		body["pageNum"] = page
		body["pageSize"] = pageSize

		data, err := c.call(ctx, path, body, opts)
		if err != nil {
			return nil, err
		}

		var pg models.Page
		if err := json.Unmarshal(data, &pg); err != nil {
			break
		}

		list := bytes.TrimSpace(pg.List)
		if len(list) == 0 || list[0] != '[' {
			break
		}

		var items []T
		if err := json.Unmarshal(list, &items); err != nil {
			break
		}

		out = append(out, items...)
		if len(items) < pageSize {
			break
		}
	}

	return out, nil
}
