package report

import "errors"

var ErrRenderFailed = errors.New("failed to render report")
