package types

import "fmt"

// QName is a namespace-qualified local name. It identifies a schema node
// independently of the prefix used in the expression source.
//
// A nil *QName used as a name test matches every node (full wildcard).
type QName struct {
	Local     string
	Namespace string
}

// String returns the name in namespace:local form.
func (q *QName) String() string {
	if q == nil {
		return "*"
	}
	if q.Namespace == "" {
		return q.Local
	}
	return fmt.Sprintf("%s:%s", q.Namespace, q.Local)
}

// Matches reports whether the receiver, used as a name test, accepts the
// given qualified name. A nil receiver is a wildcard.
func (q *QName) Matches(local, namespace string) bool {
	if q == nil {
		return true
	}
	return q.Local == local && q.Namespace == namespace
}

// ModuleID identifies the schema module whose namespace and prefix table
// govern name resolution within one parsed expression.
type ModuleID struct {
	Name     string
	Revision string
}

// String returns the module identifier in name@revision form.
func (m ModuleID) String() string {
	if m.Revision == "" {
		return m.Name
	}
	return m.Name + "@" + m.Revision
}
