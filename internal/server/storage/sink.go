// Package storage holds the image upload sink: an external collaborator
// that accepts an encoded image payload and returns a durable URL.
package storage

import "context"

// ImageSink accepts an inline-encoded image payload (a base64 data URL) and
// stores it under the given logical folder, returning a durable URL.
type ImageSink interface {
	Upload(ctx context.Context, payload, folder string) (string, error)
}
