// Package provider completes the third-party side of a delegated login. The
// redirect/consent choreography happens in the browser; by the time this
// package is involved the provider has called back with a one-time code, and
// all that is left is exchanging it for the caller's provider attributes.
package provider

import "context"

// Profile is what a completed exchange yields about the caller.
type Profile struct {
	ProviderID  string
	Provider    string
	DisplayName string
	AvatarURI   string
	Email       string // optional
}

// Exchanger turns a provider callback code into a Profile.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (Profile, error)
}
