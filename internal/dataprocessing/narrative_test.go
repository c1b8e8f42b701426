package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghotracker/pkg/contracts/domain"
)

func TestNarrator_Category(t *testing.T) {
	n := NewNarrator("Botswana")

	tests := []struct {
		indicator string
		want      Category
	}{
		{"Infant mortality rate (per 1000 live births)", CategoryChildMortality},
		{"Neonatal mortality rate", CategoryChildMortality},
		{"Under-five mortality rate", CategoryChildMortality},
		{"Adolescent birth rate", CategoryAdolescent},
		{"Maternal mortality ratio", CategoryMaternal},
		{"HIV mortality rate", CategoryHIV},
		{"Tuberculosis treatment coverage", CategoryTuberculosis},
		{"Incidence of TB", CategoryTuberculosis},
		{"Crude suicide rates", CategorySuicide},
		{"Adolescent HIV prevalence", CategoryAdolescent},
		{"Infant HIV testing", CategoryChildMortality},
		{"Road traffic deaths", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.indicator, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Category(tt.indicator))
		})
	}
}

func TestNarrator_Explain(t *testing.T) {
	n := NewNarrator("Botswana")

	assert.Equal(t,
		"This indicator describes HIV-related burden or services. "+
			"Declining mortality or incidence is usually good; increasing coverage of treatment is positive.",
		n.Explain("HIV mortality rate"))

	assert.True(t, strings.HasPrefix(n.Explain("Suicide deaths"), "This indicator tracks deaths due to suicide."))

	assert.Equal(t,
		"This indicator reflects a specific health outcome or service coverage in Botswana. "+
			"Changes over time can signal improvements or emerging challenges in the health system.",
		n.Explain("Road traffic deaths"))

	assert.Contains(t, NewNarrator("Namibia").Explain("Road traffic deaths"), "coverage in Namibia.")
}

func TestNarrator_Narrate(t *testing.T) {
	n := NewNarrator("Botswana")

	t.Run("decreasing scenario", func(t *testing.T) {
		summary, err := Classify(series(2015, 40, 2020, 30))
		require.NoError(t, err)

		text := n.Narrate("Infant mortality rate", summary)
		assert.Equal(t,
			"Between 2015 and 2020, this indicator decreased from 40.0 to 30.0, a change of about -25.0%. "+
				"For outcomes where high values are harmful (like deaths or mortality), this pattern is generally positive.",
			text)
	})

	t.Run("increasing", func(t *testing.T) {
		summary, err := Classify(series(2010, 12.346, 2012, 20))
		require.NoError(t, err)

		text := n.Narrate("x", summary)
		assert.True(t, strings.HasPrefix(text, "Between 2010 and 2012, this indicator increased from 12.35 to 20.0, a change of about 62.0%."))
		assert.Contains(t, text, "or improvement if the indicator tracks coverage or access.")
	})

	t.Run("stable uses end value", func(t *testing.T) {
		summary, err := Classify(series(2000, 100, 2001, 105))
		require.NoError(t, err)

		assert.Equal(t,
			"From 2000 to 2001, this indicator stayed relatively stable around 105.0, with about 5.0% change overall. "+
				"This may mean that major shifts in this health area have not yet occurred.",
			n.Narrate("x", summary))
	})

	t.Run("uncertain mentions country", func(t *testing.T) {
		summary, err := Classify(series(2000, 0, 2001, 3.5))
		require.NoError(t, err)

		assert.Equal(t,
			"From 2000 to 2001, this indicator changed from 0.0 to 3.5. "+
				"More detailed context is needed to interpret whether this is good or bad for Botswana.",
			n.Narrate("x", summary))
	})

	t.Run("placeholder when percent undefined", func(t *testing.T) {
		summary := domain.TrendSummary{StartYear: 2000, EndYear: 2001, EndValue: 1, Label: domain.TrendStable}
		assert.Contains(t, n.Narrate("x", summary), "with "+uncertainPercentText+" change overall")
	})
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		40:        "40.0",
		12.346:    "12.35",
		12.344:    "12.34",
		0.1:       "0.1",
		-3:        "-3.0",
		1234.5:    "1234.5",
		2.0 / 3.0: "0.67",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatNumber(in), "formatNumber(%v)", in)
	}
}
