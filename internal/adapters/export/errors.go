package export

import "errors"

// ErrUnknownFormat is returned for download formats other than csv and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")
