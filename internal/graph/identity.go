package graph

import (
	"strings"

	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// identity resolves symbol identifiers to declarations. Every identifier
// merged into a declaration aliases the first one seen for it, so lookups
// through any alias land on the same node.
type identity struct {
	parent map[string]string
	owner  map[string]source.DeclID
	byDecl map[source.DeclID]string
}

func newIdentity() *identity {
	return &identity{
		parent: make(map[string]string),
		owner:  make(map[string]source.DeclID),
		byDecl: make(map[source.DeclID]string),
	}
}

func (i *identity) find(usr string) (string, bool) {
	root, ok := i.parent[usr]
	if !ok {
		return "", false
	}
	for root != i.parent[root] {
		root = i.parent[root]
	}
	// Path compression
	for usr != root {
		next := i.parent[usr]
		i.parent[usr] = root
		usr = next
	}
	return root, true
}

func (i *identity) lookup(usr string) (source.DeclID, bool) {
	root, ok := i.find(CanonicalUSR(usr))
	if !ok {
		return source.NoDecl, false
	}
	id, ok := i.owner[root]
	return id, ok
}

// register makes usr an identifier of id. The first identifier registered
// for a declaration becomes its canonical root; later ones alias it. An
// identifier already owned by another declaration is left with its owner.
func (i *identity) register(usr string, id source.DeclID) {
	usr = CanonicalUSR(usr)
	if usr == "" {
		return
	}

	canonical, hasCanonical := i.byDecl[id]
	if _, exists := i.find(usr); exists {
		return
	}

	if !hasCanonical {
		i.parent[usr] = usr
		i.owner[usr] = id
		i.byDecl[id] = usr
		return
	}
	i.parent[usr] = canonical
}

// CanonicalUSR strips generic argument lists so that every specialization
// of a declaration shares one identity. Unbalanced brackets are left alone.
func CanonicalUSR(usr string) string {
	if !strings.ContainsRune(usr, '<') {
		return usr
	}

	var sb strings.Builder
	depth := 0
	for _, r := range usr {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	if depth != 0 {
		return usr
	}
	return sb.String()
}
