package search

import "errors"

// ErrNoQueryModality is returned by MultimodalSearch when neither text nor
// image is supplied. It signals caller misuse and is distinct from an empty
// match list.
var ErrNoQueryModality = errors.New("no query modality supplied: provide a text query, an image, or both")
