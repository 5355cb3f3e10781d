package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/csheth/scholarlens/internal/library"
)

const systemPrompt = "You are a world-class senior researcher. Analyze the academic paper you are given. " +
	"Be objective and critical, point out hidden tricks in experimental setups, and explain " +
	"complex charts as if teaching a Ph.D. student."

const englishStructure = `Markdown report structure:
# [Paper Title]
**Basic Info**: Authors, Institution, Year, DOI.

# Abstract Summary

# Background Info
(Research context, problem to solve)

# Methods
(Core algorithms, model architecture, setup)

# Results
(Key findings, chart interpretation, data comparison)

# Conclusion
(Summary, innovations, limitations)`

const chineseStructure = `Markdown 报告结构要求：
# [论文标题]
**基础信息**: 作者, 机构, 年份, DOI.

# 摘要总结

# 背景信息 (Background)
(研究背景、待解决的问题)

# 方法 (Methods)
(核心算法、模型架构、实验设置)

# 结果 (Results)
(主要发现、核心图表解读、数据对比)

# 结论 (Conclusion)
(总结、创新点、局限性)`

const responseContract = `Return ONLY JSON matching:
{"markdown_report":"","metadata":{"title":"","authors":[""],"year":"","institution":"","keywords":[""],"summary":"","doi":"","folder":""}}
- markdown_report: the complete report using only #, ##, ### headings, "- " bullets, "1. " numbered items, blank lines and **bold**.
- metadata.summary: under 150 words.
- metadata.folder: a short suggested category for filing the paper.`

func languageInstruction(lang Language) string {
	if lang == Chinese {
		return "OUTPUT MUST BE IN SIMPLIFIED CHINESE (简体中文)."
	}
	return "OUTPUT MUST BE IN ENGLISH."
}

func buildReportPrompt(req Request, text string) string {
	structure := englishStructure
	if req.Language == Chinese {
		structure = chineseStructure
	}
	var b strings.Builder
	b.WriteString(languageInstruction(req.Language))
	b.WriteString("\n\n")
	b.WriteString(structure)
	b.WriteString("\n\n")
	b.WriteString(responseContract)
	b.WriteString("\n\n")
	if req.Filename != "" {
		b.WriteString("File name: " + req.Filename + "\n\n")
	}
	b.WriteString("Paper text:\n")
	b.WriteString(text)
	return b.String()
}

type reportPayload struct {
	MarkdownReport string `json:"markdown_report"`
	Metadata       struct {
		Title       string      `json:"title"`
		Authors     []string    `json:"authors"`
		Year        looseString `json:"year"`
		Institution string      `json:"institution"`
		Keywords    []string    `json:"keywords"`
		Summary     string      `json:"summary"`
		DOI         string      `json:"doi"`
		Folder      string      `json:"folder"`
	} `json:"metadata"`
}

// looseString accepts a JSON string or number. Models often emit the year
// as a bare number when no schema is enforced.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or number: %w", err)
	}
	*s = looseString(n.String())
	return nil
}

// parseReport decodes the provider JSON, tolerating prose around the object.
func parseReport(raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}, failed("empty response from provider")
	}
	candidates := []string{raw}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	var payload reportPayload
	decoded := false
	for _, candidate := range candidates {
		if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
			decoded = true
			break
		}
	}
	if !decoded {
		return Result{}, failed("unable to parse analysis payload")
	}
	report := strings.TrimSpace(payload.MarkdownReport)
	if report == "" {
		return Result{}, failed("response is missing markdown_report")
	}
	title := strings.TrimSpace(payload.Metadata.Title)
	if title == "" {
		return Result{}, failed("response is missing metadata.title")
	}
	return Result{
		Report: report,
		Metadata: library.Metadata{
			Title:       title,
			Authors:     cleanList(payload.Metadata.Authors),
			Year:        strings.TrimSpace(string(payload.Metadata.Year)),
			Institution: strings.TrimSpace(payload.Metadata.Institution),
			Keywords:    cleanList(payload.Metadata.Keywords),
			Summary:     strings.TrimSpace(payload.Metadata.Summary),
			DOI:         strings.TrimSpace(payload.Metadata.DOI),
		},
		SuggestedFolder: strings.TrimSpace(payload.Metadata.Folder),
	}, nil
}

func cleanList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
