package chart

import "errors"

// ErrUnknownFormat is returned for image formats other than svg and png.
var ErrUnknownFormat = errors.New("unknown chart format")
