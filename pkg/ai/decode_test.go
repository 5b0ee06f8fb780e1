package ai

import (
	"reflect"
	"testing"
)

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantStrategy DecodeStrategy
		want         any
	}{
		{
			name:         "clean object",
			input:        `{"entities": [{"name": "糖尿病", "type": "疾病"}]}`,
			wantStrategy: DecodeDirect,
			want: map[string]any{
				"entities": []any{map[string]any{"name": "糖尿病", "type": "疾病"}},
			},
		},
		{
			name:         "clean array",
			input:        `[{"source": "胰岛素", "target": "糖尿病"}]`,
			wantStrategy: DecodeDirect,
			want: []any{
				map[string]any{"source": "胰岛素", "target": "糖尿病"},
			},
		},
		{
			name:         "object surrounded by prose",
			input:        "根据文本，提取结果如下：\n{\"entities\": []}\n希望对您有帮助。",
			wantStrategy: DecodeBraceExtract,
			want:         map[string]any{"entities": []any{}},
		},
		{
			name:         "array surrounded by prose is wrapped",
			input:        `结果：[{"name": "口渴", "type": "症状"}] 完毕`,
			wantStrategy: DecodeBraceExtract,
			want: map[string]any{
				"entities": []any{map[string]any{"name": "口渴", "type": "症状"}},
			},
		},
		{
			name:         "trailing comma in object",
			input:        `前言 {"entities": [{"name": "胰岛素", "type": "药物"},]} 后记`,
			wantStrategy: DecodeCommaFix,
			want: map[string]any{
				"entities": []any{map[string]any{"name": "胰岛素", "type": "药物"}},
			},
		},
		{
			name:         "markdown fenced json",
			input:        "```json\n{\"entities\": [{\"name\": \"多尿\", \"type\": \"症状\"}]}\n```",
			wantStrategy: DecodeBraceExtract,
			want: map[string]any{
				"entities": []any{map[string]any{"name": "多尿", "type": "症状"}},
			},
		},
		{
			name:         "unquoted keys need repair",
			input:        `{entities: [{name: '心脏', type: '解剖部位'}]}`,
			wantStrategy: DecodeRepair,
			want: map[string]any{
				"entities": []any{map[string]any{"name": "心脏", "type": "解剖部位"}},
			},
		},
		{
			name:         "total garbage defaults to empty entities",
			input:        "无法提取任何内容",
			wantStrategy: DecodeEmpty,
			want:         map[string]any{"entities": []any{}},
		},
		{
			name:         "empty input defaults to empty entities",
			input:        "",
			wantStrategy: DecodeEmpty,
			want:         map[string]any{"entities": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy := DecodeLenient(tt.input)
			if strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", strategy, tt.wantStrategy)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("value = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeSalvage(t *testing.T) {
	input := `提取到 "name": "二甲双胍", "type": "药物" 与 "name": "糖尿病", "type": "疾病" 两项`

	got, ok := decodeSalvage(input)
	if !ok {
		t.Fatal("decodeSalvage() ok = false, want true")
	}

	want := map[string]any{
		"entities": []any{
			map[string]any{"name": "二甲双胍", "type": "药物"},
			map[string]any{"name": "糖尿病", "type": "疾病"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("value = %#v, want %#v", got, want)
	}

	if _, ok := decodeSalvage("没有任何键值对"); ok {
		t.Error("decodeSalvage() ok = true for input without pairs")
	}
}

func TestDecodeInto(t *testing.T) {
	type payload struct {
		Entities []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"entities"`
	}

	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantCount int
	}{
		{
			name:      "valid json",
			input:     `{"entities": [{"name": "糖尿病", "type": "疾病"}]}`,
			wantCount: 1,
		},
		{
			name:      "double encoded",
			input:     `"{\"entities\": [{\"name\": \"多饮\", \"type\": \"症状\"}]}"`,
			wantCount: 1,
		},
		{
			name:      "duplicate leading brace",
			input:     `{{"entities": [{"name": "多食", "type": "症状"}]}`,
			wantCount: 1,
		},
		{
			name:      "repairable trailing comma",
			input:     `{"entities": [{"name": "多尿", "type": "症状"},]}`,
			wantCount: 1,
		},
		{
			name:    "shape mismatch",
			input:   `{"entities": "not a list"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeInto(tt.input, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeInto() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(got.Entities) != tt.wantCount {
				t.Errorf("entities = %d, want %d", len(got.Entities), tt.wantCount)
			}
		})
	}
}
