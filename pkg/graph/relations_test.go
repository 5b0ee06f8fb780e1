package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/medkg/medgraph/pkg/common"
)

func newTestClient(t *testing.T, mock *mockAI) *GraphClient {
	t.Helper()
	client, err := NewGraphClient(NewGraphClientParams{
		AI:        mock,
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewGraphClient() error = %v", err)
	}
	return client
}

func TestShortcutRelationsSkipGeneration(t *testing.T) {
	mock := &mockAI{}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	entities := []common.Entity{
		{ID: 0, Name: "胰岛素", Type: "药物", SourceDoc: "a.txt"},
		{ID: 1, Name: "糖尿病", Type: "疾病", SourceDoc: "a.txt"},
	}

	mentions := extractor.Extract(context.Background(), entities)

	var treated *common.RelationMention
	for i := range mentions {
		if mentions[i].SourceName == "胰岛素" && mentions[i].TargetName == "糖尿病" {
			treated = &mentions[i]
		}
	}
	if treated == nil {
		t.Fatalf("no 胰岛素 -> 糖尿病 relation in %+v", mentions)
	}
	if treated.Type != "治疗" {
		t.Errorf("relation type = %q, want 治疗", treated.Type)
	}
	if treated.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", treated.Confidence)
	}

	// The 胰岛素 -> 糖尿病 ordering hits the shortcut rule; only the reverse
	// ordering needs a model call.
	if mock.structuredCalls != 1 {
		t.Errorf("structured calls = %d, want 1", mock.structuredCalls)
	}
}

func TestShortcutDiabetesSymptoms(t *testing.T) {
	mock := &mockAI{
		structuredFn: func(prompt string) (any, error) {
			return []any{}, nil
		},
	}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	entities := []common.Entity{
		{ID: 0, Name: "糖尿病", Type: "疾病", SourceDoc: "a.txt"},
		{ID: 1, Name: "多尿", Type: "症状", SourceDoc: "a.txt"},
		{ID: 2, Name: "头晕", Type: "症状", SourceDoc: "a.txt"},
	}

	mentions := extractor.Extract(context.Background(), entities)

	found := false
	for _, m := range mentions {
		if m.TargetName == "多尿" && m.Type == "相关症状" && m.Confidence == 1.0 {
			found = true
		}
		if m.TargetName == "头晕" {
			t.Errorf("unexpected shortcut relation for 头晕: %+v", m)
		}
	}
	if !found {
		t.Errorf("missing shortcut 糖尿病 -> 多尿 相关症状 in %+v", mentions)
	}
}

func TestRelationConfidenceFilter(t *testing.T) {
	mock := &mockAI{
		structuredFn: func(prompt string) (any, error) {
			return []any{
				map[string]any{"type": "治疗", "description": "ok", "confidence": 0.9},
				map[string]any{"type": "预防", "description": "too weak", "confidence": 0.5},
				map[string]any{"type": "相关", "description": "defaulted"},
				map[string]any{"description": "no type", "confidence": 0.95},
			}, nil
		},
	}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	entities := []common.Entity{
		{ID: 0, Name: "阿司匹林", Type: "药物", SourceDoc: "a.txt"},
		{ID: 1, Name: "冠心病", Type: "疾病", SourceDoc: "a.txt"},
	}

	mentions := extractor.Extract(context.Background(), entities)

	types := map[string]float64{}
	for _, m := range mentions {
		if m.SourceName == "阿司匹林" {
			types[m.Type] = m.Confidence
		}
	}

	if c, ok := types["治疗"]; !ok || c != 0.9 {
		t.Errorf("治疗 confidence = %v (present %v), want 0.9", c, ok)
	}
	if _, ok := types["预防"]; ok {
		t.Error("low-confidence 预防 relation not filtered")
	}
	if c, ok := types["相关"]; !ok || c != 1.0 {
		t.Errorf("相关 confidence = %v (present %v), want default 1.0", c, ok)
	}
	if len(types) != 2 {
		t.Errorf("kept %d relation types %v, want 2", len(types), types)
	}
}

func TestRelationReversePairSwapsDirection(t *testing.T) {
	prompts := []string{}
	mock := &mockAI{
		structuredFn: func(prompt string) (any, error) {
			prompts = append(prompts, prompt)
			return []any{
				map[string]any{"type": "导致", "confidence": 0.8},
			}, nil
		},
	}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	// (疾病, 病因) has no vocabulary; the reverse pair (病因, 疾病) does,
	// so the asserted relation must run 病因 -> 疾病.
	entities := []common.Entity{
		{ID: 0, Name: "高血压", Type: "疾病", SourceDoc: "a.txt"},
		{ID: 1, Name: "高盐饮食", Type: "病因", SourceDoc: "a.txt"},
	}

	mentions := extractor.Extract(context.Background(), entities)

	if len(mentions) == 0 {
		t.Fatal("no relations extracted")
	}
	for _, m := range mentions {
		if m.SourceName != "高盐饮食" || m.TargetName != "高血压" {
			t.Errorf("relation direction %s -> %s, want 高盐饮食 -> 高血压", m.SourceName, m.TargetName)
		}
	}
}

func TestRelationResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		response any
		want     int
	}{
		{"array", []any{map[string]any{"type": "治疗", "confidence": 0.9}}, 1},
		{"wrapped object", map[string]any{"relations": []any{map[string]any{"type": "治疗", "confidence": 0.9}}}, 1},
		{"empty array", []any{}, 0},
		{"unrelated object", map[string]any{"entities": []any{}}, 0},
		{"scalar", "无关系", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := relationCandidates(tt.response)
			if len(got) != tt.want {
				t.Errorf("relationCandidates() = %d candidates, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRelationPairCap(t *testing.T) {
	mock := &mockAI{
		structuredFn: func(prompt string) (any, error) {
			return []any{}, nil
		},
	}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	// 4 drugs x 4 diseases would be 16 ordered pairs per direction without
	// the cap. None hit a shortcut.
	entities := []common.Entity{}
	for i := range 4 {
		entities = append(entities, common.Entity{
			ID: int64(i), Name: fmt.Sprintf("药%d", i), Type: "药物", SourceDoc: "a.txt",
		})
	}
	for i := range 4 {
		entities = append(entities, common.Entity{
			ID: int64(4 + i), Name: fmt.Sprintf("病%d", i), Type: "疾病", SourceDoc: "a.txt",
		})
	}

	extractor.Extract(context.Background(), entities)

	// Two ordered type combinations, each capped at the default of 5 pairs.
	if mock.structuredCalls != 10 {
		t.Errorf("structured calls = %d, want 10", mock.structuredCalls)
	}
}

func TestRelationPairsNotReprocessedAcrossDocuments(t *testing.T) {
	mock := &mockAI{
		structuredFn: func(prompt string) (any, error) {
			return []any{}, nil
		},
	}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	entities := []common.Entity{
		{ID: 0, Name: "阿司匹林", Type: "药物", SourceDoc: "a.txt"},
		{ID: 1, Name: "冠心病", Type: "疾病", SourceDoc: "a.txt"},
	}

	extractor.Extract(context.Background(), entities)
	first := mock.structuredCalls

	// The same canonical pair showing up in another document is skipped.
	extractor.Extract(context.Background(), entities)
	if mock.structuredCalls != first {
		t.Errorf("structured calls grew from %d to %d on repeat", first, mock.structuredCalls)
	}
}

func TestRelationExtractionTooFewEntities(t *testing.T) {
	mock := &mockAI{}
	client := newTestClient(t, mock)
	extractor := client.NewRelationExtractor()

	entities := []common.Entity{{ID: 0, Name: "糖尿病", Type: "疾病", SourceDoc: "a.txt"}}
	if got := extractor.Extract(context.Background(), entities); len(got) != 0 {
		t.Errorf("Extract() = %d mentions, want 0", len(got))
	}
	if mock.structuredCalls != 0 {
		t.Errorf("structured calls = %d, want 0", mock.structuredCalls)
	}
}
