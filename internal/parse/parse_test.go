// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"reflect"
	"strings"
	"testing"
)

// --- Split ---

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "all sections in canonical order",
			text: "【标题】每日一词\n【单词卡】banana\nn. 香蕉\n【配图建议】黄色背景\n【正文】故事\n【标签】#英语\n【meta】prompt=v1",
			want: map[string]string{
				MarkerTitle:     "每日一词",
				MarkerWordCard:  "banana\nn. 香蕉",
				MarkerImageHint: "黄色背景",
				MarkerBody:      "故事",
				MarkerTags:      "#英语",
				MarkerMeta:      "prompt=v1",
			},
		},
		{
			name: "out of order sections still split",
			text: "【正文】故事\n【标题】标题在后",
			want: map[string]string{
				MarkerBody:  "故事",
				MarkerTitle: "标题在后",
			},
		},
		{
			name: "absent marker produces no entry",
			text: "【标题】只有标题",
			want: map[string]string{
				MarkerTitle: "只有标题",
			},
		},
		{
			name: "empty section distinguishable from absent",
			text: "【标题】\n【正文】内容",
			want: map[string]string{
				MarkerTitle: "",
				MarkerBody:  "内容",
			},
		},
		{
			name: "repeated marker stays in first section",
			text: "【标题】第一\n【标题】第二\n【正文】内容",
			want: map[string]string{
				MarkerTitle: "第一\n【标题】第二",
				MarkerBody:  "内容",
			},
		},
		{
			name: "no markers at all",
			text: "plain text without any markers",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, SectionMarkers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// --- ParseWordPost ---

func TestParseWordPost(t *testing.T) {
	text := strings.Join([]string{
		"【标题】📚 banana 一词速记",
		"【单词卡】banana",
		"n. 香蕉",
		"【配图建议】明亮的香蕉静物",
		"【正文】记忆：想象一只猴子。",
		"",
		"实用例句：",
		"- I ate a banana.（我吃了一根香蕉。）",
		"相关词汇扩展：",
		"- fruit: 水果",
		"【标签】#英语学习 #四级词汇",
		"【meta】prompt=word_learning_v1",
	}, "\n")

	post := ParseWordPost(text, "banana")

	if post.Word != "banana" {
		t.Errorf("Word = %q, want banana", post.Word)
	}
	if post.Title != "📚 banana 一词速记" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Definitions != "banana\nn. 香蕉" {
		t.Errorf("Definitions = %q", post.Definitions)
	}
	if post.MemoryStory != "记忆：想象一只猴子。" {
		t.Errorf("MemoryStory = %q", post.MemoryStory)
	}
	if want := []string{"I ate a banana.（我吃了一根香蕉。）"}; !reflect.DeepEqual(post.Examples, want) {
		t.Errorf("Examples = %#v, want %#v", post.Examples, want)
	}
	if want := []string{"fruit: 水果"}; !reflect.DeepEqual(post.Related, want) {
		t.Errorf("Related = %#v, want %#v", post.Related, want)
	}
	if want := []string{"英语学习", "四级词汇"}; !reflect.DeepEqual(post.Tags, want) {
		t.Errorf("Tags = %#v, want %#v", post.Tags, want)
	}
	if post.ImageSuggestion != "明亮的香蕉静物" {
		t.Errorf("ImageSuggestion = %q", post.ImageSuggestion)
	}
	if got := post.Meta["prompt"]; got != "word_learning_v1" {
		t.Errorf(`Meta["prompt"] = %q`, got)
	}
}

func TestParseWordPostDefaults(t *testing.T) {
	post := ParseWordPost("no markers here at all", "serendipity")

	if post.Title != "📚 今天学单词：serendipity" {
		t.Errorf("Title fallback = %q", post.Title)
	}
	if !reflect.DeepEqual(post.Tags, DefaultTags) {
		t.Errorf("Tags = %#v, want defaults", post.Tags)
	}
	if post.Meta != nil {
		t.Errorf("Meta = %#v, want nil", post.Meta)
	}
	if post.Definitions != "" || post.ImageSuggestion != "" {
		t.Errorf("expected empty optional fields, got Definitions=%q ImageSuggestion=%q",
			post.Definitions, post.ImageSuggestion)
	}
}

func TestParseWordPostDefaultTagsAreACopy(t *testing.T) {
	post := ParseWordPost("", "word")
	post.Tags[0] = "mutated"
	if DefaultTags[0] != "英语学习" {
		t.Fatalf("DefaultTags mutated: %#v", DefaultTags)
	}
}
