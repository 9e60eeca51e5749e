/*
SPDX-FileCopyrightText: Red Hat

SPDX-License-Identifier: Apache-2.0
*/

package remote

import "encoding/json"

// Kind is the classification of one remote call. The set is closed: every
// response, including transport failures, maps to exactly one of these.
type Kind string

const (
	// OK covers 200, 201, 202 and 204. The body is only present for 200/201.
	OK Kind = "OK"

	// Unauthorized covers 401 and 403.
	Unauthorized Kind = "Unauthorized"

	// NotFound covers 404.
	NotFound Kind = "NotFound"

	// BadRequest covers 400. The reason carries the server's message field.
	BadRequest Kind = "BadRequest"

	// ServerUnavailable covers 500.
	ServerUnavailable Kind = "ServerUnavailable"

	// Unreachable means the transport itself failed (DNS, refused
	// connection, TLS). The reason carries the transport error text.
	Unreachable Kind = "Unreachable"

	// Unknown covers every other status. The body is kept verbatim for the
	// caller to inspect.
	Unknown Kind = "Unknown"
)

// Outcome is the classified result of one HTTP call against the remote
// resource store. It is a value, never an error: callers branch on Kind and
// decide themselves what is retryable.
type Outcome struct {
	Kind   Kind
	Status int
	Body   []byte
	Reason string
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool {
	return o.Kind == OK
}

// Decode unmarshals the body into the given value. It is only meaningful for
// OK and Unknown outcomes carrying a body.
func (o Outcome) Decode(v any) error {
	return json.Unmarshal(o.Body, v) // nolint: wrapcheck
}

// Message returns the human readable description of a non-OK outcome, used
// verbatim in provisioning messages.
func (o Outcome) Message() string {
	switch o.Kind {
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "notFound"
	case ServerUnavailable:
		return "k8sApi server is not reachable"
	case BadRequest, Unreachable:
		return o.Reason
	case Unknown:
		if o.Reason != "" {
			return o.Reason
		}
		return string(o.Body)
	default:
		return ""
	}
}
