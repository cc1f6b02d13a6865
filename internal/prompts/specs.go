package prompts

const parseSpec = `Output format:
- Plain text, one ingredient per line.
- No numbering, bullets, headings, or commentary.
- No more than 50 lines.`

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "standard_name": "<canonical ingredient name>",
  "status": "HALAL | HARAM | MASHBOOH | UNCERTAIN",
  "risk_level": "LOW | MEDIUM | HIGH",
  "confidence": 0.0,
  "reasoning": "<explanation>",
  "requires_expert_review": false,
  "warnings": ["<warning>"],
  "suggestions": ["<suggestion>"],
  "e_numbers": ["<E-number>"],
  "categories": ["<category>"]
}

Field constraints:
- status and risk_level must use one of the listed values exactly.
- confidence is a number between 0 and 1.
- reasoning is always a non-empty sentence naming the deciding factor.
- warnings, suggestions, e_numbers, and categories may be empty arrays.

Always respond with valid JSON, no markdown fencing.`

var specs = map[Stage]string{
	StageParse:    parseSpec,
	StageClassify: classifySpec,
}

// Spec returns the output format contract for a pipeline stage.
// Specs are fixed: overrides replace instructions only.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
