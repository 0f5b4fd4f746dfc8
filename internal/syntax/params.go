package syntax

const ignoredName = "_"

// scope maps names to the parameter they resolve to. A value of -1 is a
// local binding that hides any outer name.
type scope struct {
	names  map[string]int
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]int), parent: parent}
}

func (s *scope) resolve(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if idx, ok := cur.names[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

type paramUsage struct {
	used []bool
}

func (u *paramUsage) read(s *scope, name string) {
	if idx, ok := s.resolve(name); ok && idx >= 0 {
		u.used[idx] = true
	}
}

func (u *paramUsage) walk(s *scope, n *Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case NodeIdent:
		u.read(s, n.Name)
		u.walkAll(s, n.Children)

	case NodeBinding:
		u.walkAll(s, n.Children)
		if n.Name != "" && n.Name != ignoredName {
			s.names[n.Name] = -1
		}

	case NodeBlock:
		u.walkAll(newScope(s), n.Children)

	case NodeClosure:
		for _, c := range n.Captures {
			u.read(s, c.SourceName())
		}
		inner := newScope(s)
		for _, c := range n.Captures {
			inner.names[c.Name] = -1
		}
		for _, p := range n.Params {
			if p.Name != "" {
				inner.names[p.Name] = -1
			}
		}
		u.walkAll(inner, n.Children)

	default:
		u.walkAll(s, n.Children)
	}
}

func (u *paramUsage) walkAll(s *scope, nodes []*Node) {
	for _, n := range nodes {
		u.walk(s, n)
	}
}

// UnusedParams returns the parameters of fn that its body never reads.
// A local binding that reuses a parameter's name hides the parameter from
// that point on; a closure capture of a parameter counts as a read.
// Functions without a body and bodies that only call fatalError report
// nothing.
func UnusedParams(fn *Function) []Param {
	if fn == nil || fn.Body == nil || len(fn.Params) == 0 || isFatalErrorOnly(fn.Body) {
		return nil
	}

	usage := &paramUsage{used: make([]bool, len(fn.Params))}
	root := newScope(nil)
	for i, p := range fn.Params {
		if p.Name == "" || p.Name == ignoredName {
			continue
		}
		root.names[p.Name] = i
	}

	// The body is the function's own scope, nested under the parameters so
	// that a binding in the body shadows rather than replaces them.
	body := newScope(root)
	if fn.Body.Kind == NodeBlock {
		usage.walkAll(body, fn.Body.Children)
	} else {
		usage.walk(body, fn.Body)
	}

	var unused []Param
	for i, p := range fn.Params {
		if p.Name == "" || p.Name == ignoredName || usage.used[i] {
			continue
		}
		unused = append(unused, p)
	}
	return unused
}

func isFatalErrorOnly(body *Node) bool {
	stmts := []*Node{body}
	if body.Kind == NodeBlock {
		stmts = body.Children
	}
	return len(stmts) == 1 && stmts[0].Kind == NodeIdent && stmts[0].Name == "fatalError"
}
