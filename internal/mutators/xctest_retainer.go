package mutators

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/config"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// XCTestRetainer retains test cases: XCTestCase subclasses and their test
// methods, plus Swift Testing @Test functions and @Suite types.
type XCTestRetainer struct {
	pass
}

// NewXCTestRetainer creates the pass
func NewXCTestRetainer(cfg *config.Config, logger logrus.FieldLogger) Mutator {
	return &XCTestRetainer{pass: newPass(cfg, logger)}
}

// Name implements Mutator
func (m *XCTestRetainer) Name() string { return "XCTestRetainer" }

// Mutate implements Mutator
func (m *XCTestRetainer) Mutate(g *graph.Graph) error {
	testCaseClasses := append([]string{"XCTestCase"}, m.cfg.ExternalTestCaseClasses...)

	for _, d := range g.Declarations() {
		if d.HasAttribute(source.AttrTest) || d.HasAttribute(source.AttrSuite) {
			g.MarkRetained(d.ID)
		}
	}

	for _, class := range g.DeclarationsOfKind(source.KindClass) {
		if !inheritsAny(g, class, testCaseClasses...) {
			continue
		}
		g.MarkRetained(class.ID)
		for _, member := range members(g, class) {
			if isTestMethod(member) {
				g.MarkRetained(member.ID)
			}
		}
	}
	return nil
}

func isTestMethod(d *source.Declaration) bool {
	if d.Kind != source.KindFunctionMethodInstance {
		return false
	}
	return strings.HasPrefix(d.Name, "test") && strings.HasSuffix(d.Name, "()")
}
