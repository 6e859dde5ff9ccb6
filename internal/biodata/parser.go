package biodata

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// Labels that tend to run into the end of the previous sentence in
	// pasted WhatsApp messages get forced onto their own line.
	runOnLabelRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-z])(Name[:\-])`),
		regexp.MustCompile(`(?i)([a-z])(DOB[:\-])`),
		regexp.MustCompile(`(?i)([a-z])(Contact[:\-])`),
	}

	maleRe       = regexp.MustCompile(`(?i)\b(boy|male|groom|he)\b`)
	femaleRe     = regexp.MustCompile(`(?i)\b(girl|female|bride|she)\b`)
	nonManglikRe = regexp.MustCompile(`(?i)non[\s-]?manglik`)
	anshikRe     = regexp.MustCompile(`(?i)anshik`)
	manglikRe    = regexp.MustCompile(`(?i)manglik`)
	heightRe     = regexp.MustCompile(`(\d)['’.\s-]*(\d{1,2})['"”]`)
	incomeRe     = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(LPA|Lac|Lakhs|CTC)`)
	phoneRe      = regexp.MustCompile(`(\+91|0)?\s?(\d{5}\s?\d{5}|\d{10})`)
	honorificRe  = regexp.MustCompile(`(?i)^(CA|Er|Dr|Mr|Ms|Mrs)\.?\s+`)
	parenRe      = regexp.MustCompile(`\(.*\)`)
	biodataRe    = regexp.MustCompile(`(?i)biodata`)
)

// Parse extracts a best-effort Profile from one unstructured biodata
// message. It never fails: unparseable input yields a Profile whose
// fields are all empty strings.
func Parse(text string) Profile {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference date for age derivation,
// so results are fully deterministic for a fixed now.
func ParseAt(text string, now time.Time) Profile {
	var p Profile

	lines := splitLines(text)

	// Layer 2: labeled fields, first match wins per field.
	for _, rule := range fieldRules {
		*rule.field(&p) = getValue(lines, rule)
	}
	p.Height = strings.TrimRight(p.Height, `"”″`)

	// Layer 3: parents and siblings ignore the label tables entirely.
	scanFamily(lines, &p)

	// Layer 4: derived and fallback fields over the whole raw text.
	if p.Gender == "" {
		if maleRe.MatchString(text) {
			p.Gender = "Male"
		} else if femaleRe.MatchString(text) {
			p.Gender = "Female"
		}
	}

	// non-manglik must be tested before plain manglik, which it contains.
	if nonManglikRe.MatchString(text) {
		p.Manglik = "Non-Manglik"
	} else if anshikRe.MatchString(text) {
		p.Manglik = "Anshik"
	} else if manglikRe.MatchString(text) {
		p.Manglik = "Manglik"
	}

	if p.Height == "" {
		if m := heightRe.FindStringSubmatch(text); m != nil {
			// Only 4, 5 or 6 feet is a plausible human height.
			if m[1] == "4" || m[1] == "5" || m[1] == "6" {
				p.Height = fmt.Sprintf("%s'%s", m[1], m[2])
			}
		}
	}

	if p.Income == "" {
		if m := incomeRe.FindString(text); m != "" {
			p.Income = m
		}
	}

	if p.Contact == "" {
		if m := phoneRe.FindString(text); m != "" {
			p.Contact = m
		}
	}

	if p.Name != "" {
		name := honorificRe.ReplaceAllString(p.Name, "")
		name = parenRe.ReplaceAllString(name, "")
		p.Name = strings.TrimSpace(name)
	} else if len(lines) > 0 && len(lines[0]) < 40 {
		p.Name = strings.TrimSpace(biodataRe.ReplaceAllString(lines[0], ""))
	}

	if p.DOB != "" {
		if age := CalculateAgeAt(p.DOB, now); age != "" {
			p.Age = age
		}
	}

	if p.City == "" {
		p.City = p.POB
	}
	if p.City == "" && p.Address != "" {
		p.City = strings.TrimSpace(strings.Split(p.Address, ",")[0])
	}

	return p
}

// splitLines normalizes run-on labels onto their own lines, then returns
// the trimmed non-empty lines.
func splitLines(text string) []string {
	clean := text
	for _, re := range runOnLabelRes {
		clean = re.ReplaceAllString(clean, "${1}\n${2}")
	}
	var lines []string
	for _, l := range strings.Split(clean, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func getValue(lines []string, rule fieldRule) string {
	for _, line := range lines {
		if containsAny(strings.ToLower(line), rule.excludes) {
			continue
		}
		for _, re := range rule.res {
			if m := re.FindStringSubmatch(line); m != nil {
				return truncateValue(m[1])
			}
		}
	}
	return ""
}

// truncateValue cuts a captured value at the first comma or newline.
func truncateValue(v string) string {
	if i := strings.IndexAny(v, ",\n"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

var (
	fatherOccKeys = []string{"occupation", "occ.", "job", "working", "business"}
	motherOccKeys = []string{"occupation", "occ.", "job", "housewife", "working"}
)

// scanFamily fills father/mother/sibling fields from any line mentioning
// the relation, independent of the labeled-field rules.
func scanFamily(lines []string, p *Profile) {
	for _, line := range lines {
		l := strings.ToLower(line)

		if strings.Contains(l, "father") && (strings.Contains(l, "name") || !strings.Contains(l, "occupation")) {
			if p.Father == "" {
				p.Father = relationName(line, "father")
			}
		}
		if strings.Contains(l, "mother") && (strings.Contains(l, "name") || !strings.Contains(l, "occupation")) {
			if p.Mother == "" {
				p.Mother = relationName(line, "mother")
			}
		}

		// Occupation lines may overwrite an earlier match.
		if strings.Contains(l, "father") && containsAny(l, fatherOccKeys) {
			if v := afterDelimiter(line); v != "" {
				p.FatherOcc = v
			}
		}
		if strings.Contains(l, "mother") && containsAny(l, motherOccKeys) {
			if v := afterDelimiter(line); v != "" {
				p.MotherOcc = v
			}
		}

		if strings.Contains(l, "sibling") || strings.Contains(l, "brother") || strings.Contains(l, "sister") {
			v := afterDelimiter(line)
			if v == "" {
				v = line
			}
			p.Siblings = strings.TrimSpace(p.Siblings + " " + v)
		}
	}
}

// afterDelimiter returns the text after the first ':' or '-' on the
// line, or "" when the line has no delimiter.
func afterDelimiter(line string) string {
	if i := strings.IndexAny(line, ":-"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return ""
}

// relationName extracts a parent's name from a line like
// "Father Name: Suresh" or "*Father* Suresh Kumar".
func relationName(line, relation string) string {
	v := afterDelimiter(line)
	if v == "" {
		v = strings.ReplaceAll(line, "*", "")
	}
	if i := strings.Index(strings.ToLower(v), relation); i >= 0 {
		v = v[:i] + v[i+len(relation):]
	}
	return strings.TrimSpace(v)
}
