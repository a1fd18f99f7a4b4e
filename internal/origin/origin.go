// Package origin enforces the browser-origin allowlist for the gateway.
package origin

import "sync"

// Validator decides whether a request's declared origin may proceed.
// An absent origin (server-to-server callers) is always allowed, as is any
// origin when the allowlist is empty. Otherwise membership is exact — no
// wildcards, no partial matching.
type Validator struct {
	mu      sync.RWMutex
	allowed map[string]struct{}
}

func NewValidator(origins []string) *Validator {
	v := &Validator{}
	v.Update(origins)
	return v
}

// Update replaces the allowlist, used on config hot reload.
func (v *Validator) Update(origins []string) {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	v.mu.Lock()
	v.allowed = allowed
	v.mu.Unlock()
}

// Allow reports whether the given Origin header value may proceed.
func (v *Validator) Allow(origin string) bool {
	if origin == "" {
		return true
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.allowed) == 0 {
		return true
	}
	_, ok := v.allowed[origin]
	return ok
}
