// Package advisory asks an external language model for category and priority
// suggestions. Its output is advice only and never constrains stored values.
package advisory

import (
	"encoding/base64"
	"fmt"
	"strings"
)

var Categories = []string{
	"Public Infrastructure & Utilities",
	"Government Services & Administration",
	"Consumer Rights & Product Issues",
	"Workplace & Employment Issues",
	"Education & Student Concerns",
	"Healthcare & Medical Services",
	"Law Enforcement & Justice",
	"Environmental & Safety Issues",
	"Housing & Real Estate",
	"Transportation & Public Safety",
	"Financial & Banking Issues",
	"Other",
}

var PriorityLevels = []string{
	"Low - Minor issue, no immediate action required",
	"Medium - Requires attention within a week",
	"High - Needs immediate investigation",
	"Critical - Urgent action required",
}

type AttachmentPayload struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Base64 string `json:"base64"`
}

type AnalyzeRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Attachments []AttachmentPayload `json:"attachments"`
}

// CountAttachments counts attachments whose payload decodes. A data URL
// prefix ("data:image/png;base64,") is ignored.
func (r AnalyzeRequest) CountAttachments() int {
	n := 0
	for _, a := range r.Attachments {
		if a.Base64 == "" {
			continue
		}
		payload := a.Base64
		if i := strings.LastIndex(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
		if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
			continue
		}
		n++
	}
	return n
}

// Analysis is the raw model text plus the suggestions found in it. A nil
// suggestion means the label was missing.
type Analysis struct {
	Text     string  `json:"text"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// BuildPrompt lists the category and priority vocabularies and asks for a
// line-oriented answer with "Category:" and "Priority:" labels.
func BuildPrompt(title, description string, attachments int) string {
	var b strings.Builder
	b.WriteString("Analyze this grievance and provide structured recommendations:\n\n")
	b.WriteString("Grievance Details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", orNA(title))
	fmt.Fprintf(&b, "- Description: %s\n", orNA(description))
	fmt.Fprintf(&b, "- Attachments: %d file(s)\n\n", attachments)
	fmt.Fprintf(&b, "Available Categories: %s\n", strings.Join(Categories, ", "))
	fmt.Fprintf(&b, "Available Priority Levels: %s\n\n", strings.Join(PriorityLevels, ", "))
	b.WriteString(`Instructions:
1. Carefully review the grievance description
2. Select the MOST APPROPRIATE category from the provided list
3. Determine the MOST SUITABLE priority level based on the grievance's urgency and impact
4. Provide a clear rationale for your category and priority selection

Please provide recommendations in the following structured format:
Title: [Refined Title]
Description: [Improved Description (limited to 500 words)]
Category: [Selected Category]
Priority: [Selected Priority Level]
Rationale:
- Why this category was chosen
- Why this priority level was selected

Key Observations:
1. [Observation 1]
2. [Observation 2]
3. [Observation 3]

Recommendations should be concise, clear, and directly actionable.`)
	return b.String()
}

// Parse extracts the first "Category:" and "Priority:" lines of text.
func Parse(text string) *Analysis {
	a := &Analysis{Text: text}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if a.Category == nil {
			a.Category = labelValue(line, "Category:")
		}
		if a.Priority == nil {
			a.Priority = labelValue(line, "Priority:")
		}
	}
	return a
}

func labelValue(line, label string) *string {
	if !strings.HasPrefix(line, label) {
		return nil
	}
	v := strings.TrimSpace(strings.TrimPrefix(line, label))
	if v == "" {
		return nil
	}
	return &v
}
