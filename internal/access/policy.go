// Package access decides whether mutating procedures may run.
package access

import "github.com/user/notecards/internal/content"

// Policy is consulted before every mutation.
type Policy interface {
	CanMutate() bool
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func() bool

func (f PolicyFunc) CanMutate() bool { return f() }

type readOnly bool

func (r readOnly) CanMutate() bool { return !bool(r) }

// ReadOnly returns the deployment policy: when publicMode is set, nothing may be mutated.
func ReadOnly(publicMode bool) Policy {
	return readOnly(publicMode)
}

// Guard fails with content.ErrForbidden when p forbids mutations.
func Guard(p Policy) error {
	if p == nil || p.CanMutate() {
		return nil
	}
	return content.ErrForbidden
}

// FeatureSet lists the mutation features a client may offer.
type FeatureSet struct {
	AddContent    bool `json:"addContent"`
	EditContent   bool `json:"editContent"`
	DeleteContent bool `json:"deleteContent"`
}

// Features derives the feature toggles from p.
func Features(p Policy) FeatureSet {
	ok := Guard(p) == nil
	return FeatureSet{AddContent: ok, EditContent: ok, DeleteContent: ok}
}
