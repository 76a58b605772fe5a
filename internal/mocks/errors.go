package mocks

import "errors"

// ErrNotMocked is returned by aggregate queries whose function is unset.
var ErrNotMocked = errors.New("mocks: method not mocked")
