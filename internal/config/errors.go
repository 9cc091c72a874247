package config

import "errors"

// ErrMissingSecret is returned by Validate when production runs without a login credential.
var ErrMissingSecret = errors.New("required secret is not set")
