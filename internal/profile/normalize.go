// Package profile flattens raw job-seeker profiles into the attribute set used for
// prompting and for the rule-based fallback report.
package profile

import (
	"strings"

	"github.com/compsherpa/compsherpa/internal/salary"
	"github.com/compsherpa/compsherpa/internal/types"
)

// Defaults substituted for missing fields.
const (
	NotSpecified    = "Not specified"
	NoneSpecified   = "None specified"
	EnglishOnly     = "English only"
	UnknownEmployer = "Unknown"
	exploringMarker = "exploring"
)

// DegreeLevel is the normalized degree enum.
type DegreeLevel string

const (
	DegreeUnspecified DegreeLevel = ""
	DegreeAssociate   DegreeLevel = "associate"
	DegreeBachelor    DegreeLevel = "bachelor"
	DegreeMaster      DegreeLevel = "master"
	DegreeDoctorate   DegreeLevel = "doctorate"
	DegreeOther       DegreeLevel = "other"
)

// Comfort is the ordinal negotiation comfort level.
type Comfort int

const (
	ComfortUnspecified Comfort = iota - 1
	ComfortVeryNervous
	ComfortNervous
	ComfortSomewhat
	ComfortConfident
)

// NormalizedProfile is a flat, defaulted view of a Profile.
type NormalizedProfile struct {
	DegreeType        string
	Degree            DegreeLevel
	HasAdvancedDegree bool
	YearsExperience   int
	TargetRole        string
	TargetLocation    string
	SettingPreference string
	StartDateGoal     string
	CurrentRole       string

	CertificationCount  int
	HasCertifications   bool
	ClinicalAreas       string
	HasLeadershipExp    bool
	HasPreceptorExp     bool
	IsBilingual         bool
	Languages           string
	AdditionalStrengths string

	CurrentlyEmployed bool
	HasOtherOffers    bool
	OfferCount        int

	TopPriority        string
	MustHaves          string
	NegotiationComfort string
	Comfort            Comfort

	CurrentSalaryRange string
	MinimumAcceptable  string
	TargetSalary       string
	CurrentBand        salary.Band
	MinimumBand        salary.Band
	TargetBand         salary.Band

	EmployerType       string
	EmployerSize       string
	IsRural            bool
	HasLoanForgiveness bool
	IsUnionized        bool

	IsExploring bool
}

// Normalize converts a profile into its normalized form. It never fails and never
// modifies p; a nil profile normalizes to all defaults.
func Normalize(p *types.Profile) NormalizedProfile {
	if p == nil {
		p = &types.Profile{}
	}

	var current, minimum, target string
	if se := p.SalaryExpectations; se != nil {
		current, minimum, target = string(se.Current), string(se.Minimum), string(se.Target)
	}

	degree := ParseDegree(p.DegreeType)
	certs := countNonBlank(p.SpecialtyCertifications)
	languages := nonBlank(p.BilingualSkills)
	offers := p.OtherOffers.Value()

	n := NormalizedProfile{
		DegreeType:        orDefault(p.DegreeType, NotSpecified),
		Degree:            degree,
		HasAdvancedDegree: degree == DegreeMaster || degree == DegreeDoctorate,
		YearsExperience:   p.YearsExperience.Value(),
		TargetRole:        orDefault(p.TargetRole, NotSpecified),
		TargetLocation:    orDefault(p.TargetLocation.String(), NotSpecified),
		SettingPreference: orDefault(p.SettingPreference, NotSpecified),
		StartDateGoal:     orDefault(p.StartDateGoal, NotSpecified),
		CurrentRole:       orDefault(p.CurrentRole, NotSpecified),

		CertificationCount:  certs,
		HasCertifications:   certs > 0,
		ClinicalAreas:       orDefault(strings.Join(nonBlank(p.ClinicalAreas), ", "), NotSpecified),
		HasLeadershipExp:    p.LeadershipExperience,
		HasPreceptorExp:     p.PreceptorExperience,
		IsBilingual:         len(languages) > 0,
		Languages:           orDefault(strings.Join(languages, ", "), EnglishOnly),
		AdditionalStrengths: orDefault(p.AdditionalStrengths, NoneSpecified),

		CurrentlyEmployed: p.CurrentlyEmployed != nil && *p.CurrentlyEmployed,
		HasOtherOffers:    offers > 0,
		OfferCount:        offers,

		TopPriority:        orDefault(p.TopPriority, NotSpecified),
		MustHaves:          orDefault(strings.Join(nonBlank(p.MustHaves), ", "), NoneSpecified),
		NegotiationComfort: orDefault(p.NegotiationComfort, NotSpecified),
		Comfort:            ParseComfort(p.NegotiationComfort),

		CurrentSalaryRange: orDefault(current, NotSpecified),
		MinimumAcceptable:  orDefault(minimum, NotSpecified),
		TargetSalary:       orDefault(target, NotSpecified),
		CurrentBand:        salary.MustBand(current),
		MinimumBand:        salary.MustBand(minimum),
		TargetBand:         salary.MustBand(target),

		EmployerType:       orDefault(p.EmployerType, UnknownEmployer),
		EmployerSize:       orDefault(p.EmployerSize, UnknownEmployer),
		IsRural:            p.RuralLocation,
		HasLoanForgiveness: p.LoanForgiveness,
		IsUnionized:        p.Unionized,

		IsExploring: IsExploring(p.TargetRole),
	}
	return n
}

// IsExploring reports whether a target role marks the user as still exploring roles.
func IsExploring(targetRole string) bool {
	return strings.Contains(strings.ToLower(targetRole), exploringMarker)
}

// ParseDegree maps the form's degree codes and common spellings to a DegreeLevel.
func ParseDegree(s string) DegreeLevel {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("'", "", "’", "", ".", "").Replace(v)
	switch {
	case v == "":
		return DegreeUnspecified
	case v == "adn" || v == "asn" || strings.HasPrefix(v, "associate"):
		return DegreeAssociate
	case v == "bsn" || strings.HasPrefix(v, "bachelor"):
		return DegreeBachelor
	case v == "msn" || strings.HasPrefix(v, "master"):
		return DegreeMaster
	case v == "dnp" || v == "phd" || strings.HasPrefix(v, "doctor"):
		return DegreeDoctorate
	default:
		return DegreeOther
	}
}

// ParseComfort maps the form's negotiation comfort answers to an ordinal.
func ParseComfort(s string) Comfort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "very nervous":
		return ComfortVeryNervous
	case "nervous":
		return ComfortNervous
	case "somewhat comfortable":
		return ComfortSomewhat
	case "confident":
		return ComfortConfident
	default:
		return ComfortUnspecified
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func countNonBlank(in []string) int {
	return len(nonBlank(in))
}

// ComparisonRoles are the roles compared side by side for users still exploring.
var ComparisonRoles = []string{
	"Staff RN (Medical/Surgical)",
	"ICU/Critical Care RN",
	"Emergency Department RN",
	"Family Nurse Practitioner",
	"Clinical Nurse Specialist",
	"Nurse Manager/Supervisor",
}
