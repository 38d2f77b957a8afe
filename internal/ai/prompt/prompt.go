// Package prompt builds the instruction text for each analysis call and
// decodes the strict-JSON replies those instructions demand.
package prompt

import (
	"fmt"
	"strings"

	"github.com/anikamehra/resumelens/pkg/models"
)

const strictJSONPreamble = "You are a resume analysis engine. " +
	"Return your answer STRICTLY as JSON matching the schema below. " +
	"No markdown, no prose outside the JSON."

// Keywords asks for keyword overlap between resume and job description.
func Keywords(in models.AnalysisInput) string {
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	b.WriteString(`

Compare the resume against the job description and extract keyword overlap.

Schema:
{
  "score": <integer 0-100, percentage of important keywords covered>,
  "matched": [{"keyword": "<string>", "importance": "high|medium|low"}],
  "missing": [{"keyword": "<string>", "importance": "high|medium|low"}]
}
`)
	writeTexts(&b, in, true)
	return b.String()
}

// Skills asks for skill overlap plus an explicit gap list.
func Skills(in models.AnalysisInput) string {
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	b.WriteString(`

Compare the candidate's skills against those required by the job description.

Schema:
{
  "score": <integer 0-100>,
  "matched": [{"keyword": "<skill>", "importance": "high|medium|low"}],
  "missing": [{"keyword": "<skill>", "importance": "high|medium|low"}],
  "gaps": ["<short description of a skill gap the candidate should close>"]
}
`)
	writeTexts(&b, in, true)
	return b.String()
}

// Format asks for a structural / ATS-compatibility check of the resume.
func Format(in models.AnalysisInput) string {
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	b.WriteString(`

Check the resume's structure and ATS compatibility: section ordering,
date formats, length, contact details, parseability.

Schema:
{
  "score": <integer 0-100>,
  "issues": ["<concrete formatting problem>"],
  "suggestions": ["<concrete fix>"]
}
`)
	writeTexts(&b, in, false)
	return b.String()
}

// Recommend asks for prioritized improvement recommendations.
func Recommend(in models.AnalysisInput) string {
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	b.WriteString(`

Produce improvement recommendations for the resume, most urgent first.

Schema:
[
  {"priority": <integer, 1 is most urgent>, "section": "<resume section>", "advice": "<specific actionable advice>"}
]
`)
	if len(in.Params.FocusAreas) > 0 {
		fmt.Fprintf(&b, "\nFocus especially on: %s.\n", strings.Join(in.Params.FocusAreas, ", "))
	}
	writeTexts(&b, in, true)
	return b.String()
}

// Sections asks for a per-section score of the resume.
func Sections(in models.AnalysisInput) string {
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	b.WriteString(`

Score each section of the resume individually.

Schema:
[
  {"section": "<section name>", "score": <integer 0-100>, "comment": "<one-line assessment>"}
]
`)
	writeTexts(&b, in, false)
	return b.String()
}

// Roast asks for blunt qualitative feedback plus a market-readiness score.
func Roast(in models.AnalysisInput) string {
	tone := in.Params.RoastTone
	if tone == "" {
		tone = "brutally honest but constructive"
	}
	var b strings.Builder
	b.WriteString(strictJSONPreamble)
	fmt.Fprintf(&b, `

Roast this resume. Tone: %s. Be specific about what is weak and why.
`, tone)
	if in.Params.ShowEmojis {
		b.WriteString("Emojis in the feedback lines are welcome.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}
	b.WriteString(`
Schema:
{
  "market_readiness": <integer 0-100, how ready this resume is for the market>,
  "tone": "<the tone you used>",
  "feedback": ["<one pointed feedback line>"]
}
`)
	writeTexts(&b, in, false)
	return b.String()
}

func writeTexts(b *strings.Builder, in models.AnalysisInput, withJobDescription bool) {
	fmt.Fprintf(b, "\nResume:\n%s\n", in.ResumeText)
	if withJobDescription && in.JobDescription != "" {
		fmt.Fprintf(b, "\nJob Description:\n%s\n", in.JobDescription)
	}
}
