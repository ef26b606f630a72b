package instance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yangpath/yangpath/pkg/types"
)

// FromJSON builds an instance tree from JSON-shaped data as produced by
// encoding/json: maps become interior nodes, slices repeat their member
// name once per element, everything else is a leaf value.
//
// Member names may be qualified as "module:name"; bare names fall back to
// the given default namespace. Map members are added in sorted name order
// so a given document always yields the same path keys.
func FromJSON(defaultNS string, doc map[string]any) (*Node, error) {
	root := NewRoot()
	if err := addMembers(root, defaultNS, doc); err != nil {
		return nil, err
	}
	return root, nil
}

func addMembers(parent *Node, defaultNS string, doc map[string]any) error {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		qname := splitName(defaultNS, name)
		switch v := doc[name].(type) {
		case []any:
			for _, elem := range v {
				if err := addValue(parent, defaultNS, qname, elem); err != nil {
					return err
				}
			}
		default:
			if err := addValue(parent, defaultNS, qname, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func addValue(parent *Node, defaultNS string, qname types.QName, v any) error {
	switch x := v.(type) {
	case map[string]any:
		child := parent.Add(qname, nil)
		return addMembers(child, defaultNS, x)
	case []any:
		return fmt.Errorf("nested array under %q is not representable as instance data", qname)
	default:
		parent.Add(qname, x)
		return nil
	}
}

func splitName(defaultNS, name string) types.QName {
	if mod, local, ok := strings.Cut(name, ":"); ok && mod != "" && local != "" {
		return types.QName{Local: local, Namespace: mod}
	}
	return types.QName{Local: name, Namespace: defaultNS}
}
