package indexer

import (
	"github.com/sirupsen/logrus"

	"github.com/peripheryapp/periphery-sub003/internal/errors"
	"github.com/peripheryapp/periphery-sub003/internal/graph"
	"github.com/peripheryapp/periphery-sub003/internal/indexstore"
	"github.com/peripheryapp/periphery-sub003/internal/source"
)

// merge adds every unit to g. Declarations from all units go in first so
// that parents and reference targets in other units resolve.
func (ix *Indexer) merge(g *graph.Graph, units []*indexstore.Unit, stats *Stats) {
	ids := make([][]source.DeclID, len(units))

	for i, unit := range units {
		ignoreAll := false
		for _, cmd := range source.ParseCommentCommands(unit.CommentCommands) {
			if cmd.Kind == source.CommandIgnoreAll {
				ignoreAll = true
			}
		}

		ids[i] = make([]source.DeclID, len(unit.Declarations))
		for j, rec := range unit.Declarations {
			d := ix.declaration(unit, rec)
			if ignoreAll {
				d.Commands = append(d.Commands, source.CommentCommand{Kind: source.CommandIgnore})
			}
			id, merged, err := g.AddDeclaration(d)
			if err != nil {
				// Only possible once the graph is frozen
				ids[i][j] = source.NoDecl
				continue
			}
			if !merged {
				stats.Declarations++
			}
			ids[i][j] = id
		}
	}

	for i, unit := range units {
		for j, rec := range unit.Declarations {
			if rec.ParentUSR == "" || ids[i][j] == source.NoDecl {
				continue
			}
			parent, ok := g.Lookup(rec.ParentUSR)
			if !ok {
				ix.warn(stats, errors.GraphErrorf("parent %s of %s is not indexed", rec.ParentUSR, rec.USR), unit.File)
				continue
			}
			_ = g.SetParent(ids[i][j], parent.ID)
		}
	}

	for _, unit := range units {
		for _, rec := range unit.References {
			ix.addReference(g, unit, rec, stats)
		}
	}

	for _, unit := range units {
		for _, rec := range unit.Imports {
			err := g.AddImport(source.Import{
				File:       unit.File,
				Module:     rec.Module,
				Location:   source.Location{File: unit.File, Line: rec.Line, Column: rec.Column},
				Testable:   rec.Testable,
				Exported:   rec.Exported,
				Referenced: rec.Referenced,
			})
			if err == nil {
				stats.Imports++
			}
		}
	}

	for _, unit := range units {
		for k := range unit.Functions {
			fn := unit.Functions[k]
			d, ok := g.Lookup(fn.USR)
			if !ok || d.Syntax != nil {
				continue
			}
			d.Syntax = &fn
		}
	}
}

func (ix *Indexer) declaration(unit *indexstore.Unit, rec indexstore.DeclarationRecord) *source.Declaration {
	access, err := source.ParseAccessibility(rec.Accessibility)
	if err != nil {
		ix.logger.WithFields(logrus.Fields{
			"file": unit.File,
			"usr":  rec.USR,
		}).Debug(err.Error())
	}

	return &source.Declaration{
		USRs:                  []string{rec.USR},
		Kind:                  source.Kind(rec.Kind),
		Name:                  rec.Name,
		Modules:               []string{unit.Module},
		Location:              source.Location{File: unit.File, Line: rec.Line, Column: rec.Column},
		Accessibility:         access,
		DeclaredAccessibility: access,
		ExplicitAccessibility: rec.ExplicitAccessibility,
		Attributes:            source.MergeSet(nil, rec.Attributes),
		Modifiers:             source.MergeSet(nil, rec.Modifiers),
		InheritedTypes:        source.MergeSet(nil, rec.InheritedTypes),
		ExtendedUSR:           rec.ExtendedUSR,
		DeclaredType:          rec.DeclaredType,
		Implicit:              rec.Implicit,
		Commands:              source.ParseCommentCommands(rec.CommentCommands),
	}
}

// addReference resolves a reference record. Targets outside the graph are
// dropped. A reference whose enclosing declaration was not indexed is kept
// as a root reference so that its target stays reachable.
func (ix *Indexer) addReference(g *graph.Graph, unit *indexstore.Unit, rec indexstore.ReferenceRecord, stats *Stats) {
	target, ok := g.Lookup(rec.USR)
	if !ok {
		stats.DroppedReferences++
		// Overriding or implementing something outside the graph still
		// has to be known to the analysis.
		if source.ReferenceKind(rec.Kind) == source.RefOverride && rec.ParentUSR != "" {
			if d, ok := g.Lookup(rec.ParentUSR); ok {
				d.ExternalOverride = true
			}
		}
		return
	}

	from := source.NoDecl
	if rec.ParentUSR != "" {
		if parent, ok := g.Lookup(rec.ParentUSR); ok {
			from = parent.ID
		} else {
			ix.warn(stats, errors.GraphErrorf("reference parent %s is not indexed, treating as root reference", rec.ParentUSR).
				WithContext("usr", rec.USR), unit.File)
		}
	}

	_, added := g.AddReference(source.Reference{
		Kind:     source.ReferenceKind(rec.Kind),
		From:     from,
		To:       target.ID,
		USR:      rec.USR,
		Location: source.Location{File: unit.File, Line: rec.Line, Column: rec.Column},
		Related:  rec.Related,
	})
	if added {
		stats.References++
	}
}
