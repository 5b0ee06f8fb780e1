package graph

import (
	"reflect"
	"testing"

	"github.com/medkg/medgraph/pkg/common"
)

func TestMergeEntityMentions(t *testing.T) {
	mentions := []common.EntityMention{
		{Name: "糖尿病", Type: "疾病", SourceDoc: "a.txt"},
		{Name: "多饮", Type: "症状", SourceDoc: "a.txt", Description: "典型症状"},
		{Name: "糖尿病", Type: "疾病", SourceDoc: "b.txt", Description: "代谢性疾病"},
		{Name: "多饮", Type: "症状", SourceDoc: "b.txt", Description: "另一个描述"},
		{Name: "糖尿病", Type: "症状", SourceDoc: "b.txt"},
	}

	entities := MergeEntityMentions(mentions)

	if len(entities) != 3 {
		t.Fatalf("merged %d entities, want 3", len(entities))
	}

	// Ids follow encounter order.
	for i, e := range entities {
		if e.ID != int64(i) {
			t.Errorf("entities[%d].ID = %d, want %d", i, e.ID, i)
		}
	}

	// First occurrence is canonical, including its source document.
	if entities[0].SourceDoc != "a.txt" {
		t.Errorf("canonical source doc = %q, want a.txt", entities[0].SourceDoc)
	}

	// A later mention only fills in a missing description.
	if entities[0].Description != "代谢性疾病" {
		t.Errorf("description = %q, want backfilled 代谢性疾病", entities[0].Description)
	}
	if entities[1].Description != "典型症状" {
		t.Errorf("description = %q, want first-seen 典型症状", entities[1].Description)
	}

	// Same name under a different type stays separate.
	if entities[2].Name != "糖尿病" || entities[2].Type != "症状" {
		t.Errorf("entities[2] = %+v, want 糖尿病/症状", entities[2])
	}
}

func TestMergeEntityMentionsIdempotent(t *testing.T) {
	mentions := []common.EntityMention{
		{Name: "糖尿病", Type: "疾病", SourceDoc: "a.txt"},
		{Name: "胰岛素", Type: "药物", SourceDoc: "a.txt"},
		{Name: "糖尿病", Type: "疾病", SourceDoc: "b.txt"},
	}

	once := MergeEntityMentions(mentions)

	again := []common.EntityMention{}
	for _, e := range once {
		again = append(again, e.Mention())
	}
	twice := MergeEntityMentions(again)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed output:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeRelationMentions(t *testing.T) {
	disease := common.EntityRef{Type: "疾病", ID: 0}
	drug := common.EntityRef{Type: "药物", ID: 1}
	symptom := common.EntityRef{Type: "症状", ID: 2}

	mentions := []common.RelationMention{
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "治疗", Confidence: 0.7, Description: "first"},
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "治疗", Confidence: 0.9, Description: "stronger"},
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "治疗", Confidence: 0.9, Description: "tied"},
		{Source: disease, SourceName: "糖尿病", Target: symptom, TargetName: "多饮", Type: "相关症状", Confidence: 1.0},
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "预防", Confidence: 0.6},
	}

	relations := MergeRelationMentions(mentions)

	if len(relations) != 3 {
		t.Fatalf("merged %d relations, want 3", len(relations))
	}

	// Highest confidence survives; on a tie the earlier mention is kept.
	if relations[0].Confidence != 0.9 || relations[0].Description != "stronger" {
		t.Errorf("survivor = %+v, want confidence 0.9 description stronger", relations[0])
	}

	// Different relation type between the same endpoints is a separate identity.
	if relations[2].Type != "预防" {
		t.Errorf("relations[2].Type = %q, want 预防", relations[2].Type)
	}
}

func TestMergeRelationMentionsIdempotent(t *testing.T) {
	disease := common.EntityRef{Type: "疾病", ID: 0}
	drug := common.EntityRef{Type: "药物", ID: 1}

	mentions := []common.RelationMention{
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "治疗", Confidence: 0.8},
		{Source: drug, SourceName: "胰岛素", Target: disease, TargetName: "糖尿病", Type: "治疗", Confidence: 0.9},
	}

	once := MergeRelationMentions(mentions)

	again := []common.RelationMention{}
	for _, r := range once {
		again = append(again, r.Mention())
	}
	twice := MergeRelationMentions(again)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed output:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
