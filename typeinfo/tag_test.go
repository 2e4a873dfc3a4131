package typeinfo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	type args struct {
		tag string
		key string
	}

	type want struct {
		annotations Annotations
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "タグがない場合はアノテーションなし",
			args: args{tag: "", key: "json"},
			want: want{annotations: Annotations{}},
		},
		{
			name: "JSONタグの名前がOverrideNameになる",
			args: args{tag: `json:"STEVE"`, key: "json"},
			want: want{annotations: Annotations{OverrideName: "STEVE"}},
		},
		{
			name: "オプションは除去される",
			args: args{tag: `json:"id,omitempty"`, key: "json"},
			want: want{annotations: Annotations{OverrideName: "id"}},
		},
		{
			name: "\"-\"の場合はIgnore",
			args: args{tag: `json:"-"`, key: "json"},
			want: want{annotations: Annotations{Ignore: true}},
		},
		{
			name: "\"-,\"の場合は\"-\"という名前",
			args: args{tag: `json:"-,"`, key: "json"},
			want: want{annotations: Annotations{OverrideName: "-"}},
		},
		{
			name: "名前が空でオプションのみの場合はアノテーションなし",
			args: args{tag: `json:",omitempty"`, key: "json"},
			want: want{annotations: Annotations{}},
		},
		{
			name: "別のキーのタグは無視される",
			args: args{tag: `yaml:"name"`, key: "json"},
			want: want{annotations: Annotations{}},
		},
		{
			name: "指定したキーのタグを読む",
			args: args{tag: `json:"name" ts:"displayName"`, key: "ts"},
			want: want{annotations: Annotations{OverrideName: "displayName"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseTag(tt.args.tag, tt.args.key)
			if diff := cmp.Diff(tt.want.annotations, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}
