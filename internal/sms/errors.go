package sms

import "errors"

// ErrNoRecipients is returned by SendAll when no recipients are configured.
var ErrNoRecipients = errors.New("sms: no recipients configured")
