package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ghotracker/pkg/contracts/domain"
)

// Category groups indicators that share an explanation
type Category string

const (
	CategoryChildMortality Category = "child_mortality"
	CategoryAdolescent     Category = "adolescent"
	CategoryMaternal       Category = "maternal"
	CategoryHIV            Category = "hiv"
	CategoryTuberculosis   Category = "tuberculosis"
	CategorySuicide        Category = "suicide"
	CategoryGeneral        Category = "general"
)

// categoryRules are checked in order; the first rule with a matching
// keyword wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryChildMortality, []string{"infant", "neonatal", "under-five"}},
	{CategoryAdolescent, []string{"adolescent"}},
	{CategoryMaternal, []string{"maternal"}},
	{CategoryHIV, []string{"hiv"}},
	{CategoryTuberculosis, []string{"tb", "tuberculosis"}},
	{CategorySuicide, []string{"suicide"}},
}

var explanations = map[Category]string{
	CategoryChildMortality: "This indicator tracks deaths among very young children. " +
		"Higher values usually mean worse outcomes for child survival; " +
		"falling trends are a positive sign.",
	CategoryAdolescent: "This indicator focuses on health outcomes among adolescents. " +
		"Monitoring this helps understand risk, injuries, and access to care for young people.",
	CategoryMaternal: "This indicator relates to the health and survival of mothers during pregnancy, " +
		"childbirth, and the postnatal period. Lower mortality is better.",
	CategoryHIV: "This indicator describes HIV-related burden or services. " +
		"Declining mortality or incidence is usually good; increasing coverage of treatment is positive.",
	CategoryTuberculosis: "This indicator relates to tuberculosis burden or control. " +
		"Higher mortality or incidence is concerning; declining trends suggest better TB control.",
	CategorySuicide: "This indicator tracks deaths due to suicide. " +
		"Rising values can signal growing mental health and social stress challenges.",
}

const generalExplanation = "This indicator reflects a specific health outcome or service coverage in %s. " +
	"Changes over time can signal improvements or emerging challenges in the health system."

// uncertainPercentText replaces the percent phrase when the start value is zero
const uncertainPercentText = "an uncertain percentage change (starting value was zero)"

// Narrator writes plain-language text about indicators of one country
type Narrator struct {
	Country string
}

// NewNarrator creates a narrator for country
func NewNarrator(country string) *Narrator {
	return &Narrator{Country: country}
}

// Category routes an indicator name to its explanation category.
// Matching is a case-insensitive substring test.
func (n *Narrator) Category(indicator string) Category {
	name := strings.ToLower(indicator)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// Explain returns a short description of what the indicator measures
func (n *Narrator) Explain(indicator string) string {
	if text, ok := explanations[n.Category(indicator)]; ok {
		return text
	}
	return fmt.Sprintf(generalExplanation, n.Country)
}

// Narrate describes a trend summary in one paragraph. The wording hedges on
// polarity because the indicator may measure a burden or a coverage.
func (n *Narrator) Narrate(indicator string, s domain.TrendSummary) string {
	start, end := formatNumber(s.StartValue), formatNumber(s.EndValue)

	pctText := uncertainPercentText
	if s.PercentChange != nil {
		pctText = fmt.Sprintf("about %.1f%%", *s.PercentChange)
	}

	switch s.Label {
	case domain.TrendIncreasing:
		return fmt.Sprintf("Between %d and %d, this indicator increased from %s to %s, a change of %s. "+
			"This suggests a worsening of the measured burden if higher values are harmful, "+
			"or improvement if the indicator tracks coverage or access.",
			s.StartYear, s.EndYear, start, end, pctText)
	case domain.TrendDecreasing:
		return fmt.Sprintf("Between %d and %d, this indicator decreased from %s to %s, a change of %s. "+
			"For outcomes where high values are harmful (like deaths or mortality), "+
			"this pattern is generally positive.",
			s.StartYear, s.EndYear, start, end, pctText)
	case domain.TrendStable:
		return fmt.Sprintf("From %d to %d, this indicator stayed relatively stable around %s, "+
			"with %s change overall. "+
			"This may mean that major shifts in this health area have not yet occurred.",
			s.StartYear, s.EndYear, end, pctText)
	default:
		return fmt.Sprintf("From %d to %d, this indicator changed from %s to %s. "+
			"More detailed context is needed to interpret whether this is good or bad for %s.",
			s.StartYear, s.EndYear, start, end, n.Country)
	}
}

// formatNumber rounds to two decimals and always keeps a fractional part,
// so 40 prints as "40.0" and 12.346 as "12.35". Rounding works on the exact
// binary value with ties to even.
func formatNumber(v float64) string {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil || math.IsInf(r, 0) {
		r = v
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
