package biodata

import "regexp"

// fieldRule describes how one labeled field is pulled out of the message:
// an ordered list of label synonyms (regex fragments) and keywords that
// disqualify a whole line.
type fieldRule struct {
	field    func(*Profile) *string
	labels   []string
	excludes []string
	res      []*regexp.Regexp
}

// fieldRules is scanned in order; within a rule the first matching line
// wins, and within a line the first matching label wins.
var fieldRules = []fieldRule{
	{
		field:    func(p *Profile) *string { return &p.Name },
		labels:   []string{"Name", `FULL\s*NAME`, "Candidate Name", "Boy Name", "Girl Name", "Bride Name", "Groom Name"},
		excludes: []string{"father", "mother"},
	},
	{
		field:  func(p *Profile) *string { return &p.Gender },
		labels: []string{"Gender", "Sex"},
	},
	{
		field:  func(p *Profile) *string { return &p.Height },
		labels: []string{"Height", "Ht", "HEIGHT"},
	},
	{
		field:  func(p *Profile) *string { return &p.Complexion },
		labels: []string{"Color", "Complexion", "Skin Tone"},
	},
	{
		field:  func(p *Profile) *string { return &p.Diet },
		labels: []string{"Diet", "Food"},
	},
	{
		field:  func(p *Profile) *string { return &p.DOB },
		labels: []string{"Date of Birth", "DOB", `D\.O\.B`, `D\.O\.B\.`, "D.O.B"},
	},
	{
		field:  func(p *Profile) *string { return &p.TOB },
		labels: []string{"Birth Time", "Time of Birth", "TOB", "Time"},
	},
	{
		field:  func(p *Profile) *string { return &p.POB },
		labels: []string{"Birth Place", "Place of Birth", "POB", "Birth place"},
	},
	{
		field:  func(p *Profile) *string { return &p.City },
		labels: []string{"City", "Location", "Residing at", "Living in"},
	},
	{
		field:  func(p *Profile) *string { return &p.Caste },
		labels: []string{"Caste", "Sub Caste"},
	},
	{
		field:  func(p *Profile) *string { return &p.Gotra },
		labels: []string{"Gotra"},
	},
	{
		field:  func(p *Profile) *string { return &p.Education },
		labels: []string{"Qualification", "Education", "Degree"},
	},
	{
		field:    func(p *Profile) *string { return &p.Profession },
		labels:   []string{"Profession", "Occupation", "Job", "Work", "Occuption", "Occuaption"},
		excludes: []string{"father", "mother"},
	},
	{
		field:  func(p *Profile) *string { return &p.Company },
		labels: []string{"Company", "Working at", "Working in", "Office"},
	},
	{
		field:  func(p *Profile) *string { return &p.Income },
		labels: []string{"Package", "Income", "Salary", "CTC", "LPA", "Income."},
	},
	{
		field:  func(p *Profile) *string { return &p.Address },
		labels: []string{"Present Address", "Permanent Address", "Address", "Residence", "Residing"},
	},
	{
		field:  func(p *Profile) *string { return &p.Contact },
		labels: []string{"Mob", "Mobile", "Contact", "Phone", "WhatsApp"},
	},
}

func init() {
	for i := range fieldRules {
		rule := &fieldRules[i]
		rule.res = make([]*regexp.Regexp, 0, len(rule.labels))
		for _, label := range rule.labels {
			// Allow "Label:", "Label -", "Label.*", "Label *" etc. between
			// the label and its value.
			rule.res = append(rule.res, regexp.MustCompile(`(?i)`+label+`[^a-z0-9\n]*\s*(.+)`))
		}
	}
}
