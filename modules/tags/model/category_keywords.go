package model

import (
	"strings"

	jl "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
)

// CategoryKeywords is the one keyword table, a literal map compiled into the
// binary, backing (a) stage-1 intent pattern matching's job-title-to-category
// guess and (b) the deterministic ATS scoring fallback — replacing ad hoc
// literal maps with a single lookup, per the spec's tag-library
// re-architecture note. The deterministic cover letter draws on
// JobFamilySkillPhrase instead.
var CategoryKeywords = map[jl.Category][]string{
	jl.CategoryAdminOffice:     {"admin", "administrative", "office assistant", "secretary", "receptionist", "clerk"},
	jl.CategoryAccountingFin:   {"accountant", "accounting", "finance", "bookkeeper", "audit", "tax", "financial analyst"},
	jl.CategoryCustomerService: {"customer service", "support agent", "call center", "helpdesk", "client relations"},
	jl.CategoryDriving:         {"driver", "logistics", "dispatch rider", "delivery", "fleet", "courier"},
	jl.CategoryEducation:       {"teacher", "tutor", "lecturer", "instructor", "education", "school"},
	jl.CategoryEngineering:     {"engineer", "engineering", "mechanical", "civil engineer", "electrical engineer"},
	jl.CategoryHealthcare:      {"nurse", "doctor", "healthcare", "medical", "pharmacist", "clinician"},
	jl.CategoryHospitality:     {"hotel", "hospitality", "chef", "waiter", "catering", "restaurant"},
	jl.CategoryHR:              {"human resources", "hr officer", "recruiter", "talent acquisition", "people operations"},
	jl.CategoryIT:              {"software", "developer", "programmer", "it support", "network", "devops", "backend", "frontend"},
	jl.CategoryLegal:           {"lawyer", "legal", "paralegal", "attorney", "compliance officer"},
	jl.CategoryManufacturing:   {"factory", "manufacturing", "production", "machine operator", "quality control"},
	jl.CategoryMarketing:       {"marketing", "brand", "social media", "content", "advertising", "seo"},
	jl.CategoryMedia:           {"media", "graphic designer", "video editor", "photographer", "creative"},
	jl.CategoryNGO:             {"ngo", "development", "humanitarian", "program officer", "field officer"},
	jl.CategoryOilGas:          {"oil", "gas", "petroleum", "drilling", "rig", "offshore"},
	jl.CategorySales:           {"sales", "business development", "account executive", "retail"},
	jl.CategorySecurity:        {"security guard", "security officer", "surveillance", "cctv"},
}

// JobFamilySkillPhrase maps a category to a short natural-language skills
// phrase, interpolated into the deterministic cover-letter fallback
// template when AI synthesis fails or times out.
var JobFamilySkillPhrase = map[jl.Category]string{
	jl.CategoryAdminOffice:     "organizational and administrative support skills",
	jl.CategoryAccountingFin:   "financial analysis and reporting expertise",
	jl.CategoryCustomerService: "client communication and problem-resolution skills",
	jl.CategoryDriving:         "route planning and logistics coordination experience",
	jl.CategoryEducation:       "curriculum delivery and classroom management experience",
	jl.CategoryEngineering:     "technical design and engineering problem-solving skills",
	jl.CategoryHealthcare:      "patient care and clinical support experience",
	jl.CategoryHospitality:     "guest service and hospitality operations experience",
	jl.CategoryHR:              "recruitment and workforce management skills",
	jl.CategoryIT:              "software development and systems troubleshooting skills",
	jl.CategoryLegal:           "legal research and compliance skills",
	jl.CategoryManufacturing:   "production line and quality assurance experience",
	jl.CategoryMarketing:       "brand strategy and campaign execution skills",
	jl.CategoryMedia:           "content creation and creative production skills",
	jl.CategoryNGO:             "program coordination and community engagement experience",
	jl.CategoryOilGas:          "field operations and safety compliance experience",
	jl.CategorySales:           "client acquisition and revenue growth skills",
	jl.CategorySecurity:        "risk monitoring and incident response experience",
	jl.CategoryOther:           "professional and transferable workplace skills",
}

// NigerianStates is the closed set of 36 states plus the FCT and "Remote",
// used by the recruiter job-posting form (§4.10) and by stage-1 intent
// location detection (§4.6).
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
	"FCT", "Remote",
}

// DetectCategory guesses a job category from free text by counting keyword
// hits; it returns CategoryOther when nothing scores above zero.
func DetectCategory(text string) (jl.Category, bool) {
	lower := strings.ToLower(text)
	best := jl.CategoryOther
	bestScore := 0
	for category, keywords := range CategoryKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}
	return best, bestScore > 0
}

// DetectState finds the first Nigerian state (or "Remote") named in text.
func DetectState(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, state := range NigerianStates {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state, true
		}
	}
	return "", false
}
