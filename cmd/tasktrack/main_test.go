package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tasktrack"},
			want: []string{"tasktrack"},
		},
		{
			name: "direct task id first token",
			in:   []string{"tasktrack", "task-abcd2345"},
			want: []string{"tasktrack", "show", "task-abcd2345"},
		},
		{
			name: "direct task id after value flag",
			in:   []string{"tasktrack", "--dir", "./tmp-data", "task-abcd2345"},
			want: []string{"tasktrack", "--dir", "./tmp-data", "show", "task-abcd2345"},
		},
		{
			name: "direct task id after equals flag",
			in:   []string{"tasktrack", "--dir=./tmp-data", "task-abcd2345"},
			want: []string{"tasktrack", "--dir=./tmp-data", "show", "task-abcd2345"},
		},
		{
			name: "direct task id after bool flag",
			in:   []string{"tasktrack", "--pretty", "task-abcd2345"},
			want: []string{"tasktrack", "--pretty", "show", "task-abcd2345"},
		},
		{
			name: "direct task id after double dash",
			in:   []string{"tasktrack", "--dir", "./tmp-data", "--", "task-abcd2345"},
			want: []string{"tasktrack", "--dir", "./tmp-data", "--", "show", "task-abcd2345"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"tasktrack", "toggle", "task-abcd2345"},
			want: []string{"tasktrack", "toggle", "task-abcd2345"},
		},
		{
			name: "bare prefix is not an id",
			in:   []string{"tasktrack", "task-"},
			want: []string{"tasktrack", "task-"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
