package graph

import (
	"fmt"
	"strings"

	"github.com/medkg/medgraph/pkg/common"
)

// ShortcutRelation is a relation asserted by a shortcut rule instead of a
// generation call. Shortcut assertions are domain facts and always carry
// full confidence.
type ShortcutRelation struct {
	Type        string
	Description string
	Confidence  float64
}

// ShortcutRule inspects an ordered entity pair and either asserts relations
// for it or passes.
type ShortcutRule func(source, target common.Entity) []ShortcutRelation

// ShortcutTable is an ordered list of shortcut rules consulted before any
// generation call for an entity pair. The first rule that asserts wins.
type ShortcutTable []ShortcutRule

// Lookup runs the table against an ordered pair. A nil result means no rule
// matched and the pair should go through normal relation analysis.
func (t ShortcutTable) Lookup(source, target common.Entity) []ShortcutRelation {
	for _, rule := range t {
		if relations := rule(source, target); len(relations) > 0 {
			return relations
		}
	}
	return nil
}

var diabetesSymptoms = map[string]bool{
	"多饮":   true,
	"多食":   true,
	"多尿":   true,
	"体重减轻": true,
}

var diabetesDrugs = map[string]bool{
	"胰岛素":  true,
	"二甲双胍": true,
}

// DefaultShortcuts returns the built-in domain facts around diabetes: its
// typical symptoms, the drugs that treat it, and complications named after it.
func DefaultShortcuts() ShortcutTable {
	return ShortcutTable{
		func(source, target common.Entity) []ShortcutRelation {
			if source.Name == "糖尿病" && target.Type == "症状" && diabetesSymptoms[target.Name] {
				return []ShortcutRelation{{
					Type:        "相关症状",
					Description: fmt.Sprintf("糖尿病的典型症状包括%s", target.Name),
					Confidence:  1.0,
				}}
			}
			return nil
		},
		func(source, target common.Entity) []ShortcutRelation {
			if source.Type == "药物" && target.Name == "糖尿病" && diabetesDrugs[source.Name] {
				return []ShortcutRelation{{
					Type:        "治疗",
					Description: fmt.Sprintf("%s用于治疗糖尿病", source.Name),
					Confidence:  1.0,
				}}
			}
			return nil
		},
		func(source, target common.Entity) []ShortcutRelation {
			if source.Name == "糖尿病" && target.Type == "并发症" && strings.Contains(target.Name, "糖尿病") {
				return []ShortcutRelation{{
					Type:        "导致",
					Description: fmt.Sprintf("糖尿病可能导致%s", target.Name),
					Confidence:  1.0,
				}}
			}
			return nil
		},
	}
}
