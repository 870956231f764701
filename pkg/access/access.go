package access

import (
	"context"
	"errors"
	"fmt"
)

// Policy is the authorization collaborator. Implementations decide whether
// a principal holds a named permission; the gate never evaluates rules
// itself.
type Policy interface {
	// HasAccess reports whether the principal holds the named permission
	// with the given access type (e.g. "read", "write", "full").
	HasAccess(ctx context.Context, name, accessType string, principalID string) bool

	// ControlPanelPermission returns the permission name guarding the
	// administration area.
	ControlPanelPermission() string

	// FullPermissions returns the access type meaning all rights.
	FullPermissions() string
}

// DeniedError is returned when a required permission check fails.
// It always propagates as an error; a failed check never terminates the
// process or writes a response by itself.
type DeniedError struct {
	Permission  string
	AccessType  string
	PrincipalID string
}

func (e *DeniedError) Error() string {
	if e.Permission == "" {
		return "access denied"
	}
	return fmt.Sprintf("access denied: %s (%s)", e.Permission, e.AccessType)
}

// IsDenied reports whether err is an access denial.
func IsDenied(err error) bool {
	var de *DeniedError
	return errors.As(err, &de)
}

// AsDenied extracts the denial details from err.
func AsDenied(err error) (*DeniedError, bool) {
	var de *DeniedError
	ok := errors.As(err, &de)
	return de, ok
}

type principalKey struct{}

// WithPrincipal stores the current principal identifier in the context.
// Controllers thread the principal explicitly instead of reading ambient
// session state.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}

// PrincipalID returns the principal identifier stored in the context.
// An empty string means anonymous.
func PrincipalID(ctx context.Context) string {
	id, _ := ctx.Value(principalKey{}).(string)
	return id
}

// Gate performs permission checks against a Policy. The zero-value gate
// and a gate with a nil policy both deny everything: access is fail-closed.
type Gate struct {
	policy Policy
}

// NewGate creates a gate over the given policy. A nil policy is allowed
// and denies all checks.
func NewGate(policy Policy) *Gate {
	return &Gate{policy: policy}
}

// HasAccess reports whether the context principal holds the permission.
// An empty accessType asks for full permissions.
func (g *Gate) HasAccess(ctx context.Context, name, accessType string) bool {
	if g == nil || g.policy == nil {
		return false
	}
	if accessType == "" {
		accessType = g.policy.FullPermissions()
	}
	return g.policy.HasAccess(ctx, name, accessType, PrincipalID(ctx))
}

// RequireAccess returns a *DeniedError when the context principal does not
// hold the permission, nil otherwise.
func (g *Gate) RequireAccess(ctx context.Context, name, accessType string) error {
	if g.HasAccess(ctx, name, accessType) {
		return nil
	}
	return &DeniedError{
		Permission:  name,
		AccessType:  accessType,
		PrincipalID: PrincipalID(ctx),
	}
}

// RequireControlPanel requires the control panel permission with full
// rights.
func (g *Gate) RequireControlPanel(ctx context.Context) error {
	if g == nil || g.policy == nil {
		return &DeniedError{PrincipalID: PrincipalID(ctx)}
	}
	return g.RequireAccess(ctx, g.policy.ControlPanelPermission(), g.policy.FullPermissions())
}
