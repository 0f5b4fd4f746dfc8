package source

import (
	"sort"

	"github.com/peripheryapp/periphery-sub003/internal/syntax"
)

// DeclID is a declaration's index in the graph arena
type DeclID int32

// NoDecl marks the absence of a declaration, e.g. the parent of a root
// declaration or the source of a root reference.
const NoDecl DeclID = -1

// Disposition is a declaration's current classification
type Disposition uint8

const (
	DispositionDefault Disposition = iota
	DispositionUnused
	DispositionRedundant
	DispositionRetained
)

func (d Disposition) String() string {
	switch d {
	case DispositionUnused:
		return "unused"
	case DispositionRedundant:
		return "redundant"
	case DispositionRetained:
		return "retained"
	}
	return "default"
}

// Well known attributes
const (
	AttrMain                = "main"
	AttrUIApplicationMain   = "UIApplicationMain"
	AttrNSApplicationMain   = "NSApplicationMain"
	AttrObjC                = "objc"
	AttrObjCMembers         = "objcMembers"
	AttrIBOutlet            = "IBOutlet"
	AttrIBAction            = "IBAction"
	AttrIBInspectable       = "IBInspectable"
	AttrIBSegueAction       = "IBSegueAction"
	AttrPropertyWrapper     = "propertyWrapper"
	AttrResultBuilder       = "resultBuilder"
	AttrDynamicMemberLookup = "dynamicMemberLookup"
	AttrTest                = "Test"
	AttrSuite               = "Suite"
	AttrNonObjC             = "nonobjc"
)

// Well known modifiers
const (
	ModOverride = "override"
	ModRequired = "required"
	ModStatic   = "static"
	ModFinal    = "final"
	ModLazy     = "lazy"
	ModWeak     = "weak"
)

// Declaration is a named, kinded program entity. All relationships to other
// declarations are arena indices owned by the graph.
type Declaration struct {
	ID   DeclID
	USRs []string
	Kind Kind
	Name string
	// Modules lists every module the declaration was indexed in, first
	// seen first.
	Modules  []string
	Location Location

	// Accessibility is the effective accessibility. DeclaredAccessibility
	// is what the index reported before cascading.
	Accessibility         Accessibility
	DeclaredAccessibility Accessibility
	ExplicitAccessibility bool

	Attributes     []string
	Modifiers      []string
	InheritedTypes []string
	ExtendedUSR    string
	DeclaredType   string
	Implicit       bool
	Commands       []CommentCommand

	Parent   DeclID
	Children []DeclID

	Syntax           *syntax.Function
	UnusedParameters []syntax.Param

	Disposition Disposition
	// Ignored declarations are retained and never reported, nor are their
	// descendants.
	Ignored bool
	// AssignOnly properties are written but never read
	AssignOnly bool
	// ExternalOverride is set when the declaration overrides or implements
	// a declaration outside the graph.
	ExternalOverride bool
}

// USR returns the canonical identifier
func (d *Declaration) USR() string {
	if len(d.USRs) == 0 {
		return ""
	}
	return d.USRs[0]
}

// Module returns the first module the declaration was indexed in
func (d *Declaration) Module() string {
	if len(d.Modules) == 0 {
		return ""
	}
	return d.Modules[0]
}

// HasUSR reports whether usr is one of the declaration's identifiers
func (d *Declaration) HasUSR(usr string) bool {
	for _, u := range d.USRs {
		if u == usr {
			return true
		}
	}
	return false
}

// HasAttribute reports whether the declaration carries the named attribute
func (d *Declaration) HasAttribute(name string) bool {
	return contains(d.Attributes, name)
}

// HasModifier reports whether the declaration carries the named modifier
func (d *Declaration) HasModifier(name string) bool {
	return contains(d.Modifiers, name)
}

// Inherits reports whether the declaration lists name among its inherited types
func (d *Declaration) Inherits(name string) bool {
	return contains(d.InheritedTypes, name)
}

// IsOverride reports whether the declaration overrides a superclass member
func (d *Declaration) IsOverride() bool {
	return d.HasModifier(ModOverride)
}

// IsRoot reports whether the declaration has no structural parent
func (d *Declaration) IsRoot() bool {
	return d.Parent == NoDecl
}

// IsRetained reports whether a pass flagged the declaration as externally used
func (d *Declaration) IsRetained() bool {
	return d.Disposition == DispositionRetained
}

// IsObjCAccessible reports whether the declaration is exposed to the
// Objective-C runtime.
func (d *Declaration) IsObjCAccessible() bool {
	return d.HasAttribute(AttrObjC) || d.HasAttribute(AttrIBAction) ||
		d.HasAttribute(AttrIBOutlet) || d.HasAttribute(AttrIBInspectable) ||
		d.HasAttribute(AttrIBSegueAction)
}

// Command returns the first comment command of the given kind
func (d *Declaration) Command(kind CommandKind) (CommentCommand, bool) {
	for _, c := range d.Commands {
		if c.Kind == kind {
			return c, true
		}
	}
	return CommentCommand{}, false
}

// AddUSRs merges identifiers, keeping the canonical one first
func (d *Declaration) AddUSRs(usrs ...string) {
	for _, u := range usrs {
		if u != "" && !d.HasUSR(u) {
			d.USRs = append(d.USRs, u)
		}
	}
}

// AddModule records another module the declaration was indexed in
func (d *Declaration) AddModule(module string) {
	if module != "" && !contains(d.Modules, module) {
		d.Modules = append(d.Modules, module)
	}
}

// MergeSet returns the sorted union of a and b
func MergeSet(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok || v == "" {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
