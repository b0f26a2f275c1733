package profile

import (
	"encoding/json"
	"testing"

	"github.com/compsherpa/compsherpa/internal/salary"
	"github.com/compsherpa/compsherpa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullProfile() *types.Profile {
	employed := true
	return &types.Profile{
		DegreeType:              "DNP",
		YearsExperience:         types.NewYears(8),
		TargetRole:              "Family Nurse Practitioner",
		TargetLocation:          types.NewLocation("Austin", "TX"),
		SettingPreference:       "Clinic",
		StartDateGoal:           "1-3 months",
		SpecialtyCertifications: []string{"CCRN", "ACLS", "PALS"},
		ClinicalAreas:           []string{"ICU/Critical Care", "Emergency"},
		LeadershipExperience:    true,
		BilingualSkills:         []string{"Spanish"},
		CurrentlyEmployed:       &employed,
		OtherOffers:             types.OfferCount{Raw: "3+"},
		SalaryExpectations: &types.SalaryExpectations{
			Current: "90-100k",
			Minimum: "105000",
			Target:  "$125k",
		},
		MustHaves:          []string{"Remote days"},
		NegotiationComfort: "Very nervous",
		RuralLocation:      true,
	}
}

func TestNormalize_FullProfile(t *testing.T) {
	n := Normalize(fullProfile())

	assert.Equal(t, "DNP", n.DegreeType)
	assert.Equal(t, DegreeDoctorate, n.Degree)
	assert.True(t, n.HasAdvancedDegree)
	assert.Equal(t, 8, n.YearsExperience)
	assert.Equal(t, "Austin, TX", n.TargetLocation)
	assert.Equal(t, 3, n.CertificationCount)
	assert.True(t, n.HasCertifications)
	assert.Equal(t, "ICU/Critical Care, Emergency", n.ClinicalAreas)
	assert.True(t, n.IsBilingual)
	assert.Equal(t, "Spanish", n.Languages)
	assert.True(t, n.CurrentlyEmployed)
	assert.True(t, n.HasOtherOffers)
	assert.Equal(t, 3, n.OfferCount)
	assert.Equal(t, ComfortVeryNervous, n.Comfort)
	assert.Equal(t, salary.Band{Min: 90000, Max: 100000, Known: true}, n.CurrentBand)
	assert.Equal(t, 125000, n.TargetBand.Midpoint())
	assert.True(t, n.IsRural)
	assert.False(t, n.IsExploring)
}

func TestNormalize_Defaults(t *testing.T) {
	for name, p := range map[string]*types.Profile{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			n := Normalize(p)
			assert.Equal(t, NotSpecified, n.DegreeType)
			assert.Equal(t, DegreeUnspecified, n.Degree)
			assert.Equal(t, 0, n.YearsExperience)
			assert.Equal(t, NotSpecified, n.TargetRole)
			assert.Equal(t, NotSpecified, n.TargetLocation)
			assert.Equal(t, NotSpecified, n.ClinicalAreas)
			assert.Equal(t, EnglishOnly, n.Languages)
			assert.Equal(t, NoneSpecified, n.MustHaves)
			assert.Equal(t, NoneSpecified, n.AdditionalStrengths)
			assert.Equal(t, UnknownEmployer, n.EmployerType)
			assert.Equal(t, NotSpecified, n.TargetSalary)
			assert.False(t, n.TargetBand.Known)
			assert.False(t, n.HasCertifications)
			assert.False(t, n.IsBilingual)
			assert.False(t, n.HasOtherOffers)
			assert.False(t, n.IsExploring)
			assert.Equal(t, ComfortUnspecified, n.Comfort)
		})
	}
}

func TestNormalize_IsDeterministicAndDoesNotMutate(t *testing.T) {
	p := fullProfile()
	before, err := json.Marshal(p)
	require.NoError(t, err)

	first := Normalize(p)
	second := Normalize(p)

	after, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.JSONEq(t, string(before), string(after))
}

func TestNormalize_OfferCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "3+", want: 3},
		{raw: "1", want: 1},
		{raw: "none", want: 0},
	}
	for _, tt := range tests {
		n := Normalize(&types.Profile{OtherOffers: types.OfferCount{Raw: tt.raw}})
		assert.Equal(t, tt.want, n.OfferCount, "raw %q", tt.raw)
		assert.Equal(t, tt.want > 0, n.HasOtherOffers, "raw %q", tt.raw)
	}
}

func TestNormalize_UnparseableSalaryIsNotSpecified(t *testing.T) {
	n := Normalize(&types.Profile{SalaryExpectations: &types.SalaryExpectations{Target: "whatever is fair"}})
	assert.Equal(t, "whatever is fair", n.TargetSalary)
	assert.False(t, n.TargetBand.Known)

	n = Normalize(&types.Profile{SalaryExpectations: &types.SalaryExpectations{Target: "1234567890123456789012345"}})
	assert.False(t, n.TargetBand.Known)
	assert.Equal(t, 0, n.TargetBand.Midpoint())
}

func TestIsExploring(t *testing.T) {
	assert.True(t, IsExploring("Exploring options"))
	assert.True(t, IsExploring("still EXPLORING"))
	assert.False(t, IsExploring("FNP"))
	assert.False(t, IsExploring(""))
}

func TestParseDegree(t *testing.T) {
	tests := map[string]DegreeLevel{
		"ADN":               DegreeAssociate,
		"BSN":               DegreeBachelor,
		"bachelor":          DegreeBachelor,
		"MSN":               DegreeMaster,
		"Master's":          DegreeMaster,
		"DNP":               DegreeDoctorate,
		"PhD":               DegreeDoctorate,
		"doctorate":         DegreeDoctorate,
		"Other":             DegreeOther,
		"Respiratory Cert.": DegreeOther,
		"":                  DegreeUnspecified,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDegree(in), "input %q", in)
	}
}

func TestCheckGeneratable(t *testing.T) {
	var invalid *ErrInvalidProfile
	assert.ErrorAs(t, CheckGeneratable(nil), &invalid)
	assert.ErrorAs(t, CheckGeneratable(&types.Profile{TargetLocation: types.NewLocation("Reno")}), &invalid)
	assert.Len(t, invalid.Missing, 3)

	assert.NoError(t, CheckGeneratable(&types.Profile{DegreeType: "BSN"}))
	assert.NoError(t, CheckGeneratable(&types.Profile{YearsExperience: types.NewYears(0)}))
	assert.NoError(t, CheckGeneratable(&types.Profile{TargetRole: "Exploring"}))
}
