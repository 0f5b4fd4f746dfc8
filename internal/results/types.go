package results

import (
	"fmt"
	"strings"

	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// Annotation is what a result reports about its declaration
type Annotation string

const (
	AnnotationUnused               Annotation = "unused"
	AnnotationAssignOnlyProperty   Annotation = "assignOnlyProperty"
	AnnotationRedundantProtocol    Annotation = "redundantProtocol"
	AnnotationRedundantConformance Annotation = "redundantConformance"
	AnnotationUnusedParameter      Annotation = "unusedParameter"
	AnnotationUnusedImport         Annotation = "unusedImport"
)

// ScanResult is one reported finding
type ScanResult struct {
	Annotation      Annotation           `json:"annotation"`
	DeclarationKind source.Kind          `json:"kind"`
	Name            string               `json:"name"`
	Module          string               `json:"module,omitempty"`
	Location        source.Location      `json:"location"`
	Accessibility   source.Accessibility `json:"-"`
	// USRs identify the result in baselines
	USRs []string `json:"ids"`
	// Parent names the declaration a parameter or conformance belongs to
	Parent string `json:"parent,omitempty"`
	// ImpliedBy names the supertype that makes a conformance redundant
	ImpliedBy string `json:"implied_by,omitempty"`
	// References are the locations of remaining uses, e.g. the
	// conformances of a redundant protocol or the uses of an unused
	// declaration from other unused code.
	References []source.Location `json:"references,omitempty"`
}

// Message renders the finding as a sentence
func (r ScanResult) Message() string {
	switch r.Annotation {
	case AnnotationAssignOnlyProperty:
		return fmt.Sprintf("Property '%s' is assigned, but never used", r.Name)
	case AnnotationRedundantProtocol:
		return fmt.Sprintf("Protocol '%s' is redundant as it's never used as an existential type", r.Name)
	case AnnotationRedundantConformance:
		if r.ImpliedBy != "" {
			return fmt.Sprintf("Redundant protocol conformance '%s' (already provided by '%s')", r.Name, r.ImpliedBy)
		}
		return fmt.Sprintf("Redundant protocol conformance '%s'", r.Name)
	case AnnotationUnusedParameter:
		return fmt.Sprintf("Parameter '%s' is unused", r.Name)
	case AnnotationUnusedImport:
		return fmt.Sprintf("Imported module '%s' is unused", r.Name)
	}
	return fmt.Sprintf("%s '%s' is unused", capitalize(r.DeclarationKind.DisplayName()), r.Name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
