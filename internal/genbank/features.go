package genbank

import "strings"

// qualifierIndent is the column where qualifier lines of a FEATURES table
// begin. Feature keys start at column 5.
const qualifierIndent = 21

type featureBlock struct {
	key        string
	location   string
	qualifiers []string // "/key=value" with continuation lines joined by a space
	text       string
}

// splitFeatures groups FEATURES table lines into feature blocks. A quoted
// qualifier value stays open across lines until its closing quote, so lines
// inside it are never read as new qualifiers or features.
func splitFeatures(lines []string) []featureBlock {
	var (
		blocks  []featureBlock
		cur     *featureBlock
		text    []string
		inQuote bool
	)
	flush := func() {
		if cur != nil {
			cur.text = strings.Join(text, "\n")
			blocks = append(blocks, *cur)
		}
	}

	for _, line := range lines {
		content := strings.TrimSpace(line)
		if content == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if !inQuote && indent < qualifierIndent {
			flush()
			key, loc, _ := strings.Cut(content, " ")
			cur = &featureBlock{key: key, location: strings.TrimSpace(loc)}
			text = []string{line}
			continue
		}
		if cur == nil {
			continue
		}
		text = append(text, line)

		switch {
		case !inQuote && strings.HasPrefix(content, "/"):
			cur.qualifiers = append(cur.qualifiers, content)
		case len(cur.qualifiers) == 0:
			cur.location += content
		default:
			cur.qualifiers[len(cur.qualifiers)-1] += " " + content
		}
		if len(cur.qualifiers) > 0 && strings.Count(content, `"`)%2 == 1 {
			inQuote = !inQuote
		}
	}
	flush()
	return blocks
}
