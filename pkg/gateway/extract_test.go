package gateway

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare JSON object",
			content: `{"modules":[],"total_duration":0}`,
			want:    `{"modules":[],"total_duration":0}`,
		},
		{
			name:    "fenced block tagged json",
			content: "Here is the outline:\n```json\n{\"modules\":[]}\n```\nHope it helps!",
			want:    `{"modules":[]}`,
		},
		{
			name:    "fenced block without tag",
			content: "```\n{\"suggestions\":[{\"id\":\"1\"}]}\n```",
			want:    `{"suggestions":[{"id":"1"}]}`,
		},
		{
			name:    "object embedded in prose",
			content: `Sure! The result is {"title":"Hygienrutiner","summary":"kort"} as requested.`,
			want:    `{"title":"Hygienrutiner","summary":"kort"}`,
		},
		{
			name:    "whitespace around bare object",
			content: "\n\n  {\"ok\":true}  \n",
			want:    `{"ok":true}`,
		},
		{
			name:    "fenced block with prose fallback to brace scan",
			content: "```\nnot json at all\n```\nbut {\"ok\":true} appears later",
			want:    `{"ok":true}`,
		},
		{
			name:    "no JSON anywhere",
			content: "I could not produce the requested structure.",
			wantErr: true,
		},
		{
			name:    "malformed JSON everywhere",
			content: "```json\n{\"broken\": \n```",
			wantErr: true,
		},
		{
			name:    "empty response",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractJSON() = %s, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractJSON() = %s, want %s", got, tt.want)
			}
			if !json.Valid(got) {
				t.Errorf("ExtractJSON() returned invalid JSON: %s", got)
			}
		})
	}
}
