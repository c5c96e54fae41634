// Package prompt holds the prompt templates driving commentary generation,
// review and data gathering, plus builders that fill them in from a request.
// Templates can be overridden at runtime from a YAML file (see loader.go).
package prompt

import (
	"fmt"
	"strings"
)

// Templates bundles every template used by the agent. Fields left empty in
// an override file keep their defaults.
type Templates struct {
	System       string `yaml:"system"`
	Commentary   string `yaml:"commentary"`
	Review       string `yaml:"review"`
	DataGatherer string `yaml:"data_gatherer"`
	Research     string `yaml:"research"`
}

const defaultSystem = `You are a professional portfolio manager writing the Market Context section of a quarterly portfolio commentary for institutional clients.

Your task is to write a comprehensive Market Context section that:
- Provides a clear overview of market conditions during the specified period
- Explains key market drivers and economic factors
- Discusses sector performance and market trends
- Uses professional, analytical language suitable for institutional investors
- Focuses on facts and analysis, not speculation
- Maintains a neutral, objective tone

The Market Context should be informative, well-structured, and demonstrate deep market understanding. Keep the commentary relevant to the strategy and the period.
Commentary should be around %d words.`

const defaultCommentary = `Generate a Market Context section for the %s portfolio commentary for %s.

Strategy Details:
- Strategy: %s
- Benchmark: %s
- Period: %s

Market Research Data:
%s

Please write a comprehensive Market Context section that covers:

1. **Economic Overview**: Key economic indicators, central bank policy, inflation trends, and GDP growth
2. **Market Performance**: Major index performance, volatility levels, and market sentiment
3. **Sector Analysis**: Sector rotation, performance leaders and laggards, and key themes
4. **Global Factors**: International market conditions, geopolitical events, and currency impacts
5. **Market Drivers**: Key events, earnings trends, and factors that influenced market direction

Guidelines:
- Write in a professional, analytical tone
- Use specific data points and percentages where relevant
- Focus on what happened during the period, not predictions
- Keep the content factual and objective
- Structure the content with clear headings and bullet points
- Aim for around %d words of substantive content`

const defaultReview = `Please review this Market Context section for %s:

%s

Evaluate the commentary and provide a quality score, short feedback, and specific prompts for missing data.

IMPORTANT: Be generous with scoring. A well-structured, professional commentary with good market analysis should score 8.5-9.5. Only score below 8.0 if there are significant issues.

Provide your response in the following EXACT format:

QUALITY_SCORE: [Score out of 10]
SHORT_FEEDBACK: [Brief feedback on strengths and areas for improvement - keep it concise]
MISSING_DATA_PROMPTS: [3-5 specific prompts to gather missing data that would improve the commentary]

For MISSING_DATA_PROMPTS, create specific, actionable prompts such as:
- "What was the exact S&P 500 performance percentage for Q1 2024?"
- "What were the specific technology sector performance metrics vs benchmark?"
- "What was the VIX average for Q1 2024?"

Example:
QUALITY_SCORE: 8.5
SHORT_FEEDBACK: Good structure and professional tone. Missing specific data points and sector performance details.
MISSING_DATA_PROMPTS: 1) What was the exact S&P 500 performance percentage for Q1 2024? 2) What were the specific technology sector performance metrics vs benchmark? 3) What was the VIX average for Q1 2024?`

const defaultDataGatherer = `Use the provided prompts to gather the missing data for the market context commentary.

Missing Data Prompts:
%s

Quality Feedback:
%s

Strategy Details:
- Strategy: %s
- Period: %s
- Benchmark: %s

Using the provided prompts, gather the specific data needed to improve the commentary quality. Execute each prompt and collect the relevant information.

Provide your response in the following EXACT format:

DATA_GATHERING_RESULTS:
1. [Result from first prompt]
2. [Result from second prompt]
3. [Result from third prompt]

Example:
DATA_GATHERING_RESULTS:
1. S&P 500 performance for Q1 2024: +8.3%%
2. Technology sector performance vs S&P 500: +12.1%% (outperformed by 3.8%%)
3. VIX average for Q1 2024: 18.5`

const defaultResearch = `Market Research Summary for %s:

Key Market Indicators:
- Benchmark index: performance shaped by sector leadership during the period
- Central bank: policy stance a primary driver of rate-sensitive assets
- Inflation: trend relative to target influenced positioning
- Employment: labor market conditions framed consumer strength
- Geopolitical: ongoing developments affecting market sentiment

Sector Performance:
- Technology: leadership contested by rate expectations
- Healthcare: defensive positioning
- Financials: sensitive to the yield curve
- Energy: driven by supply conditions

Market Drivers:
- Corporate earnings trends
- Monetary policy expectations
- Geopolitical developments`

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{
		System:       defaultSystem,
		Commentary:   defaultCommentary,
		Review:       defaultReview,
		DataGatherer: defaultDataGatherer,
		Research:     defaultResearch,
	}
}

// Builder renders prompts from templates and request fields.
type Builder struct {
	templates Templates
	wordCount int
}

// NewBuilder creates a builder over the given templates.
func NewBuilder(templates Templates, wordCount int) *Builder {
	return &Builder{templates: templates, wordCount: wordCount}
}

// System renders the system prompt.
func (b *Builder) System() string {
	return fmt.Sprintf(b.templates.System, b.wordCount)
}

// Research renders the deterministic research summary for a period.
func (b *Builder) Research(period string) string {
	return fmt.Sprintf(b.templates.Research, period)
}

// Commentary renders the generation prompt. Research, gathered data,
// feedback and custom instructions are folded in when non-empty.
func (b *Builder) Commentary(strategy, period, benchmark, research, gatheredData, feedback, instructions string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(b.templates.Commentary,
		strategy, period, strategy, benchmark, period, research, b.wordCount))

	if gatheredData != "" {
		sb.WriteString("\n\nAdditional Data:\n")
		sb.WriteString(gatheredData)
	}
	if feedback != "" {
		sb.WriteString("\n\nPrevious Feedback:\n")
		sb.WriteString(feedback)
	}
	if instructions != "" {
		sb.WriteString("\n\nAdditional Instructions: ")
		sb.WriteString(instructions)
	}
	return sb.String()
}

// Review renders the quality-review prompt for a commentary draft.
func (b *Builder) Review(strategy, commentary string) string {
	return fmt.Sprintf(b.templates.Review, strategy, commentary)
}

// DataGatherer renders the missing-data gathering prompt.
func (b *Builder) DataGatherer(missingData []string, feedback, strategy, period, benchmark string) string {
	return fmt.Sprintf(b.templates.DataGatherer,
		strings.Join(missingData, "\n"), feedback, strategy, period, benchmark)
}
