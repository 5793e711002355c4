package service

import (
	"context"
	"strings"
)

// IdentityRef is how a join request names the person behind it: exactly one
// of UserID (registered account) or GuestSessionID (anonymous session minted
// by the transport layer) must be set.
type IdentityRef struct {
	UserID         string
	GuestSessionID string
}

// Empty reports whether the reference names nobody.
func (r IdentityRef) Empty() bool {
	return r.UserID == "" && r.GuestSessionID == ""
}

// Identity is the resolved form of an IdentityRef.
type Identity struct {
	UserID         string
	GuestSessionID string
	IsGuest        bool
}

// IdentityResolver validates identity references against whatever identity
// provider issued them.  Authentication itself is external to this service;
// the core only needs to know that a reference is well formed and to
// validate nicknames before admitting a participant.
type IdentityResolver interface {
	// Resolve returns the identity behind the reference, or nil when the
	// reference is unknown or malformed.
	Resolve(ctx context.Context, ref IdentityRef) (*Identity, error)
	// ValidateNickname rejects nicknames that are too short, too long,
	// contain forbidden characters or collide with reserved words.
	ValidateNickname(nickname string) error
}

// reservedNicknames may not be claimed by participants; they collide with
// names the UI and system messages use.
var reservedNicknames = map[string]bool{
	"admin":    true,
	"system":   true,
	"creator":  true,
	"everyone": true,
	"guest":    true,
}

// LocalIdentityResolver accepts any non-empty opaque id as a valid identity.
// It is the default resolver when no external identity provider is wired in:
// tokens were already verified by the transport's auth middleware, so the
// core only checks shape.
type LocalIdentityResolver struct{}

// Resolve implements IdentityResolver.
func (LocalIdentityResolver) Resolve(_ context.Context, ref IdentityRef) (*Identity, error) {
	switch {
	case ref.UserID != "":
		return &Identity{UserID: ref.UserID}, nil
	case ref.GuestSessionID != "":
		return &Identity{GuestSessionID: ref.GuestSessionID, IsGuest: true}, nil
	default:
		return nil, nil
	}
}

// ValidateNickname implements IdentityResolver.  Nicknames are 2-20
// characters of letters, digits, spaces, underscores, dots or dashes, and
// may not be a reserved word.  Comparison with reserved words is case
// insensitive even though nickname uniqueness within an order is case
// sensitive.
func (LocalIdentityResolver) ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed != nickname || len([]rune(nickname)) < 2 || len([]rune(nickname)) > 20 {
		return &ValidationError{Reason: "nickname must be 2-20 characters without surrounding spaces"}
	}
	for _, r := range nickname {
		if !isNicknameRune(r) {
			return &ValidationError{Reason: "nickname contains forbidden characters"}
		}
	}
	if reservedNicknames[strings.ToLower(nickname)] {
		return &ValidationError{Reason: "nickname is reserved"}
	}
	return nil
}

func isNicknameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '_', r == '.', r == '-':
		return true
	}
	// Letters outside ASCII are allowed so participants can use their own
	// script; anything else (control characters, punctuation) is not.
	return r > 0x7f
}
