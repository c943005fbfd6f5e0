// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the generation prompts. The word-learning template
// emits the six-section structured format that internal/parse consumes;
// the two move in lockstep.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Version tags every structured generation. It participates in the posts
// dedup key (word + level + version) and in analytics comparisons, so bump
// it whenever the template's output format or content requirements change.
const Version = "word_learning_v1"

// wordLearningTmpl is the six-section structured prompt. The section markers
// must match internal/parse.SectionMarkers exactly.
var wordLearningTmpl = template.Must(template.New("word-learning").Parse(`请为小红书平台生成一篇关于英语单词"{{.Word}}"（难度 {{.Level}}）的记单词文案。

必须严格按照以下六段式结构输出，每段以对应标记开头，不要输出任何额外说明：

【标题】
吸引眼球的标题，使用emoji表情符号，长度15-25字。

【单词卡】
只输出词性和对应的中文释义，格式：
n: 中文释义1；中文释义2
v: 中文释义1；中文释义2
不解释、不举例、不使用完整句；不存在的词性不要输出。

【配图建议】
用一句话描述适合该单词的配图画面。

【正文】
包含三部分，按顺序：
1. 记忆技巧（场景记忆或故事，不要谐音，避免让读者云里雾里）
2. 实用例句：（中英文对照，2-3个，每条一行，以 - 开头）
3. 相关词汇扩展：（英语单词+中文释义，2-3个，每条一行，以 - 开头）

【标签】
10个相关话题标签，格式：#话题，必须不能重复，不要出现与英语学习无关的话题。

【meta】
prompt={{.Version}}
`))

// freeformTmpl is the legacy loosely structured prompt used for themed posts.
var freeformTmpl = template.Must(template.New("freeform").Parse(`请为小红书平台生成一篇关于英语单词"{{.Word}}"的记单词文案。

要求：
1. 标题要吸引眼球，使用emoji表情符号，长度15-25字
2. 正文要生动有趣，包含：
   - 中文释义
   - 记忆技巧（可以是联想、词根词缀、故事等）
   - 实用例句（中英文对照，2-3个）
   - 相关词汇扩展
3. 使用小红书风格：轻松活泼、有互动感、使用emoji
4. 添加5-8个相关话题标签（格式：#话题#）
5. 文案总长度控制在300-500字

{{if .Theme}}主题：{{.Theme}}，{{end}}请确保内容准确且有趣，能够帮助读者轻松记住这个单词。

请直接输出文案内容，不需要额外说明。`))

// BuildWordLearning renders the structured word-learning prompt for a word
// at the given difficulty level.
func BuildWordLearning(word, level string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Word    string
		Level   string
		Version string
	}{Word: word, Level: level, Version: Version}
	if err := wordLearningTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering word-learning prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildFreeform renders the legacy themed prompt.
func BuildFreeform(word, theme string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Word  string
		Theme string
	}{Word: word, Theme: theme}
	if err := freeformTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering freeform prompt: %w", err)
	}
	return buf.String(), nil
}
