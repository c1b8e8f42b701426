package dataprocessing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghotracker/pkg/contracts/domain"
)

func obs(indicator string, year int, value float64, dimType, dimName string) domain.Observation {
	return domain.Observation{
		IndicatorName: indicator,
		Year:          year,
		Value:         value,
		DimensionType: dimType,
		DimensionName: dimName,
		Breakdown:     domain.BreakdownLabel(dimType, dimName),
	}
}

func fixture() []domain.Observation {
	return []domain.Observation{
		obs("Infant mortality rate", 2020, 30, "SEX", "Male"),
		obs("Infant mortality rate", 2015, 40, "SEX", "Male"),
		obs("Infant mortality rate", 2015, 50, "SEX", "Female"),
		obs("Infant mortality rate", 2018, 10, "SEX", "Female"),
		obs("Infant mortality rate", 2018, 20, "SEX", "Female"),
		obs("HIV mortality rate", 2016, 5, "", ""),
		obs("Adolescent birth rate", 2019, 7, "AGEGROUP", "15-19"),
	}
}

func TestFilterAndAggregate(t *testing.T) {
	tests := []struct {
		name string
		sel  domain.Selection
		want []domain.YearlyPoint
	}{
		{
			name: "all breakdowns averaged per year",
			sel:  domain.Selection{Indicator: "Infant mortality rate", Breakdown: domain.AllBreakdowns, YearMin: 2015, YearMax: 2020},
			want: []domain.YearlyPoint{{Year: 2015, Value: 45}, {Year: 2018, Value: 15}, {Year: 2020, Value: 30}},
		},
		{
			name: "empty breakdown means no filter",
			sel:  domain.Selection{Indicator: "Infant mortality rate", YearMin: 2018, YearMax: 2018},
			want: []domain.YearlyPoint{{Year: 2018, Value: 15}},
		},
		{
			name: "single breakdown",
			sel:  domain.Selection{Indicator: "Infant mortality rate", Breakdown: "SEX – Male", YearMin: 2000, YearMax: 2030},
			want: []domain.YearlyPoint{{Year: 2015, Value: 40}, {Year: 2020, Value: 30}},
		},
		{
			name: "year bounds inclusive",
			sel:  domain.Selection{Indicator: "Infant mortality rate", Breakdown: domain.AllBreakdowns, YearMin: 2016, YearMax: 2020},
			want: []domain.YearlyPoint{{Year: 2018, Value: 15}, {Year: 2020, Value: 30}},
		},
		{
			name: "no match",
			sel:  domain.Selection{Indicator: "Infant mortality rate", Breakdown: "SEX – Other", YearMin: 2015, YearMax: 2020},
			want: []domain.YearlyPoint{},
		},
		{
			name: "indicator must match exactly",
			sel:  domain.Selection{Indicator: "infant mortality rate", YearMin: 2015, YearMax: 2020},
			want: []domain.YearlyPoint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAndAggregate(fixture(), tt.sel)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterAndAggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterAndAggregate_Idempotent(t *testing.T) {
	data := fixture()
	sel := domain.Selection{Indicator: "Infant mortality rate", Breakdown: domain.AllBreakdowns, YearMin: 2015, YearMax: 2020}

	first := FilterAndAggregate(data, sel)
	second := FilterAndAggregate(data, sel)
	assert.Equal(t, first, second)
	assert.Equal(t, fixture(), data)
}

func TestIndicators(t *testing.T) {
	assert.Equal(t,
		[]string{"Adolescent birth rate", "HIV mortality rate", "Infant mortality rate"},
		Indicators(fixture()))
	assert.Empty(t, Indicators(nil))
}

func TestOptions(t *testing.T) {
	opts, ok := Options(fixture(), "Infant mortality rate")
	require.True(t, ok)
	assert.Equal(t, domain.IndicatorOptions{
		Indicator:  "Infant mortality rate",
		Breakdowns: []string{"SEX – Female", "SEX – Male"},
		MinYear:    2015,
		MaxYear:    2020,
	}, opts)
	assert.Equal(t, []string{domain.AllBreakdowns, "SEX – Female", "SEX – Male"}, opts.BreakdownChoices())

	single, ok := Options(fixture(), "HIV mortality rate")
	require.True(t, ok)
	assert.True(t, single.SingleYear)
	assert.Equal(t, []string{"None – All"}, single.Breakdowns)

	_, ok = Options(fixture(), "Unknown")
	assert.False(t, ok)
}
