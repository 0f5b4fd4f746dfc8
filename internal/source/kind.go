// Package source models the declarations, references and imports that the
// index store reports for a set of source files.
package source

import "strings"

// Kind is the index store's declaration kind
type Kind string

const (
	KindAssociatedType             Kind = "associatedtype"
	KindClass                      Kind = "class"
	KindEnum                       Kind = "enum"
	KindEnumElement                Kind = "enumelement"
	KindExtension                  Kind = "extension"
	KindExtensionClass             Kind = "extension.class"
	KindExtensionEnum              Kind = "extension.enum"
	KindExtensionProto             Kind = "extension.protocol"
	KindExtensionStruct            Kind = "extension.struct"
	KindFunctionAccessorAddress    Kind = "function.accessor.address"
	KindFunctionAccessorDidSet     Kind = "function.accessor.didset"
	KindFunctionAccessorGetter     Kind = "function.accessor.getter"
	KindFunctionAccessorMutAddress Kind = "function.accessor.mutableaddress"
	KindFunctionAccessorSetter     Kind = "function.accessor.setter"
	KindFunctionAccessorWillSet    Kind = "function.accessor.willset"
	KindFunctionAccessorInit       Kind = "function.accessor.init"
	KindFunctionConstructor        Kind = "function.constructor"
	KindFunctionDestructor         Kind = "function.destructor"
	KindFunctionFree               Kind = "function.free"
	KindFunctionMethodClass        Kind = "function.method.class"
	KindFunctionMethodInstance     Kind = "function.method.instance"
	KindFunctionMethodStatic       Kind = "function.method.static"
	KindFunctionOperator           Kind = "function.operator"
	KindFunctionOperatorInfix      Kind = "function.operator.infix"
	KindFunctionOperatorPostfix    Kind = "function.operator.postfix"
	KindFunctionOperatorPrefix     Kind = "function.operator.prefix"
	KindFunctionSubscript          Kind = "function.subscript"
	KindGenericTypeParam           Kind = "generic_type_param"
	KindMacro                      Kind = "macro"
	KindModule                     Kind = "module"
	KindPrecedenceGroup            Kind = "precedencegroup"
	KindProtocol                   Kind = "protocol"
	KindStruct                     Kind = "struct"
	KindTypeAlias                  Kind = "typealias"
	KindVarClass                   Kind = "var.class"
	KindVarGlobal                  Kind = "var.global"
	KindVarInstance                Kind = "var.instance"
	KindVarLocal                   Kind = "var.local"
	KindVarParameter               Kind = "var.parameter"
	KindVarStatic                  Kind = "var.static"
)

// Kind groups used by passes that reason about whole families of kinds.
var (
	ExtensionKinds    = []Kind{KindExtension, KindExtensionClass, KindExtensionEnum, KindExtensionProto, KindExtensionStruct}
	ConcreteTypeKinds = []Kind{KindClass, KindStruct, KindEnum}
	DiscreteTypeKinds = []Kind{KindClass, KindStruct, KindEnum, KindProtocol, KindTypeAlias, KindAssociatedType}
	ClassKinds        = []Kind{KindClass}
	VariableKinds     = []Kind{KindVarClass, KindVarGlobal, KindVarInstance, KindVarLocal, KindVarParameter, KindVarStatic}
	AccessorKinds     = []Kind{
		KindFunctionAccessorAddress, KindFunctionAccessorDidSet, KindFunctionAccessorGetter,
		KindFunctionAccessorMutAddress, KindFunctionAccessorSetter, KindFunctionAccessorWillSet,
		KindFunctionAccessorInit,
	}
	FunctionKinds = []Kind{
		KindFunctionConstructor, KindFunctionDestructor, KindFunctionFree, KindFunctionMethodClass,
		KindFunctionMethodInstance, KindFunctionMethodStatic, KindFunctionOperator,
		KindFunctionOperatorInfix, KindFunctionOperatorPostfix, KindFunctionOperatorPrefix,
		KindFunctionSubscript,
	}
)

// IsExtension reports whether k is any of the extension kinds
func (k Kind) IsExtension() bool {
	return k == KindExtension || strings.HasPrefix(string(k), "extension.")
}

// IsAccessor reports whether k is a property accessor
func (k Kind) IsAccessor() bool {
	return strings.HasPrefix(string(k), "function.accessor.")
}

// IsFunction reports whether k is a function-like kind, excluding accessors
func (k Kind) IsFunction() bool {
	return strings.HasPrefix(string(k), "function.") && !k.IsAccessor()
}

// IsVariable reports whether k is a property, global or local variable
func (k Kind) IsVariable() bool {
	return strings.HasPrefix(string(k), "var.")
}

// IsProperty reports whether k is a member or global variable
func (k Kind) IsProperty() bool {
	return k.IsVariable() && k != KindVarLocal && k != KindVarParameter
}

// IsConcreteType reports whether k is a class, struct or enum
func (k Kind) IsConcreteType() bool {
	return k == KindClass || k == KindStruct || k == KindEnum
}

// IsType reports whether k declares a named type
func (k Kind) IsType() bool {
	for _, t := range DiscreteTypeKinds {
		if k == t {
			return true
		}
	}
	return false
}

// IsOperator reports whether k is an operator function
func (k Kind) IsOperator() bool {
	return strings.HasPrefix(string(k), "function.operator")
}

// HasParameters reports whether declarations of this kind carry a parameter
// list that can be analyzed for unused parameters.
func (k Kind) HasParameters() bool {
	return k.IsFunction() && k != KindFunctionDestructor
}

// ExtensionKind returns the extension kind that extends a type of kind k
func (k Kind) ExtensionKind() (Kind, bool) {
	switch k {
	case KindClass:
		return KindExtensionClass, true
	case KindStruct:
		return KindExtensionStruct, true
	case KindEnum:
		return KindExtensionEnum, true
	case KindProtocol:
		return KindExtensionProto, true
	}
	return "", false
}

// ExtendedKind returns the kind of type an extension kind extends
func (k Kind) ExtendedKind() (Kind, bool) {
	switch k {
	case KindExtensionClass:
		return KindClass, true
	case KindExtensionStruct:
		return KindStruct, true
	case KindExtensionEnum:
		return KindEnum, true
	case KindExtensionProto:
		return KindProtocol, true
	}
	return "", false
}

// DisplayName is the human readable kind used in result messages
func (k Kind) DisplayName() string {
	switch {
	case k.IsExtension():
		return "extension"
	case k == KindEnumElement:
		return "enum case"
	case k == KindAssociatedType:
		return "associated type"
	case k == KindTypeAlias:
		return "typealias"
	case k == KindFunctionConstructor:
		return "initializer"
	case k == KindFunctionDestructor:
		return "deinitializer"
	case k == KindFunctionSubscript:
		return "subscript"
	case k.IsOperator():
		return "operator"
	case k.IsAccessor():
		return "accessor"
	case k.IsFunction():
		return "function"
	case k == KindVarParameter:
		return "parameter"
	case k.IsVariable():
		return "property"
	case k == KindGenericTypeParam:
		return "generic type parameter"
	case k == KindPrecedenceGroup:
		return "precedence group"
	}
	return string(k)
}
