package source

// RefID is a reference's index in the graph arena
type RefID int32

// ReferenceKind is the kind of usage a reference records
type ReferenceKind string

const (
	RefCall          ReferenceKind = "call"
	RefRead          ReferenceKind = "read"
	RefWrite         ReferenceKind = "write"
	RefType          ReferenceKind = "type"
	RefConformance   ReferenceKind = "conformance"
	RefInheritance   ReferenceKind = "inheritance"
	RefOverride      ReferenceKind = "override"
	RefExtends       ReferenceKind = "extends"
	RefTestable      ReferenceKind = "testable-import"
	RefDefaultValue  ReferenceKind = "default-value"
	RefImplicit      ReferenceKind = "implicit"
	RefMember        ReferenceKind = "member"
	RefRetained      ReferenceKind = "retained"
	RefProtocolImpl  ReferenceKind = "protocol-impl"
	RefExtensionLink ReferenceKind = "extension"
)

// IsSupertypeEdge reports whether the kind names a direct supertype
func (k ReferenceKind) IsSupertypeEdge() bool {
	return k == RefConformance || k == RefInheritance
}

// Reference is a directed edge from a using declaration to a used one.
// From is NoDecl for root references, i.e. uses from top-level code.
type Reference struct {
	ID       RefID
	Kind     ReferenceKind
	From     DeclID
	To       DeclID
	USR      string
	Location Location
	// Related edges are structural and do not make their target reachable
	Related bool
	// Synthetic edges were added by an analysis pass rather than indexed
	Synthetic bool
	// Redundant marks a conformance already implied by another one
	Redundant bool
	// ImpliedBy is the declaration that makes a redundant conformance
	// unnecessary.
	ImpliedBy DeclID
}

// IsRoot reports whether the reference originates outside any declaration
func (r *Reference) IsRoot() bool {
	return r.From == NoDecl
}
