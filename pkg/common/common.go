package common

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator"
)

// EntityTypes is the closed set of medical entity categories the pipeline
// extracts. Prompts constrain the generation service to this vocabulary, and
// the QA engine matches question entities against it.
var EntityTypes = []string{
	"疾病", "症状", "药物", "治疗方法", "检查项目",
	"解剖部位", "病因", "并发症", "医院", "科室",
}

// RelationTypes is the closed set of medical relation labels used when
// prompting for relations and when filtering retrieved edges.
var RelationTypes = []string{
	"治疗", "预防", "导致", "检查", "诊断", "属于",
	"并发", "用于", "发生部位", "相关症状", "副作用",
}

// EntityMention is a raw, per-document entity occurrence produced by the
// extractor. Mentions carry no id; ids are assigned when mentions are merged
// into canonical entities.
type EntityMention struct {
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type" validate:"required"`
	SourceDoc   string            `json:"source_doc"`
	Description string            `json:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// Entity is a canonical, deduplicated entity. The identity key is (Type, Name),
// case-sensitive. ID is assigned once during merging and never reused.
type Entity struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type" validate:"required"`
	SourceDoc   string            `json:"source_doc"`
	Description string            `json:"description,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// EntityRef identifies a canonical entity by its type and id, the way graph
// edges reference their endpoints.
type EntityRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Key returns the graph node key for the referenced entity.
func (r EntityRef) Key() string {
	return r.Type + "_" + strconv.FormatInt(r.ID, 10)
}

// Ref returns the EntityRef for a canonical entity.
func (e Entity) Ref() EntityRef {
	return EntityRef{Type: e.Type, ID: e.ID}
}

// Key returns the graph node key for a canonical entity.
func (e Entity) Key() string {
	return e.Ref().Key()
}

// Mention converts a canonical entity back into mention form. Merging is
// idempotent: feeding the mentions of an already-merged list through the
// deduplicator reproduces it unchanged.
func (e Entity) Mention() EntityMention {
	return EntityMention{
		Name:        e.Name,
		Type:        e.Type,
		SourceDoc:   e.SourceDoc,
		Description: e.Description,
		Attributes:  e.Attributes,
	}
}

// RelationMention is a raw relation occurrence between two canonical entities,
// produced by the relation extractor before deduplication.
type RelationMention struct {
	Source      EntityRef `json:"source"`
	SourceName  string    `json:"source_name"`
	Target      EntityRef `json:"target"`
	TargetName  string    `json:"target_name"`
	Type        string    `json:"relation_type" validate:"required"`
	Confidence  float64   `json:"confidence" validate:"gte=0,lte=1"`
	Description string    `json:"description,omitempty"`
}

// Relation is a canonical, deduplicated relation. The identity key is
// (Source, Target, Type); of all colliding mentions the one with the highest
// confidence survives, ties keeping the first seen.
type Relation struct {
	Source      EntityRef `json:"source"`
	SourceName  string    `json:"source_name"`
	Target      EntityRef `json:"target"`
	TargetName  string    `json:"target_name"`
	Type        string    `json:"relation_type"`
	Confidence  float64   `json:"confidence"`
	Description string    `json:"description,omitempty"`
}

// Mention converts a canonical relation back into mention form.
func (r Relation) Mention() RelationMention {
	return RelationMention{
		Source:      r.Source,
		SourceName:  r.SourceName,
		Target:      r.Target,
		TargetName:  r.TargetName,
		Type:        r.Type,
		Confidence:  r.Confidence,
		Description: r.Description,
	}
}

var validate = validator.New()

// ValidateEntityMention checks that a mention carries the fields required to
// become a canonical entity. Incomplete mentions are skipped with a warning by
// callers, never treated as fatal.
func ValidateEntityMention(m EntityMention) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid entity mention: %w", err)
	}
	return nil
}

// ValidateRelationMention checks the required fields and the confidence range
// of a relation mention.
func ValidateRelationMention(m RelationMention) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid relation mention: %w", err)
	}
	return nil
}

// IsEntityType reports whether t belongs to the closed entity type set.
func IsEntityType(t string) bool {
	for _, e := range EntityTypes {
		if e == t {
			return true
		}
	}
	return false
}
