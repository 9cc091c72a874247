// Package perimeter is the edge tier of request authentication.
//
// It runs without database access, in the standalone edge proxy and
// optionally inline in the origin app. It only checks that a session cookie
// of the right shape is present or that the automation secret was presented,
// and turns unauthenticated browser navigations into login redirects.
//
// It is NOT a security boundary. A forged or stale cookie with a valid shape
// passes this tier and is rejected by auth.Guard at the origin, which is the
// only component that proves a session exists. Never rely on this package to
// protect a handler.
package perimeter
