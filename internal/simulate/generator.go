package simulate

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	jitterDegrees      = 0.05
)

// Share of listings seeded without an organization id, carrying only the raw
// organization name. These exercise the name-based join fallback downstream.
const nameOnlyShare = 0.1

// city pins listings to a real position so radius filtering has something to
// measure against.
type city struct {
	name string
	lat  float64
	lon  float64
}

var cities = []city{
	{"Mumbai", 19.0760, 72.8777},
	{"Delhi", 28.7041, 77.1025},
	{"Bengaluru", 12.9716, 77.5946},
	{"Hyderabad", 17.3850, 78.4867},
	{"Chennai", 13.0827, 80.2707},
	{"Pune", 18.5204, 73.8567},
	{"Kolkata", 22.5726, 88.3639},
}

var categories = []string{
	"engineering",
	"design",
	"product",
	"marketing",
	"sales",
	"operations",
}

var titlesByCategory = map[string][]string{
	"engineering": {"Backend Engineer", "Frontend Engineer", "Site Reliability Engineer", "Data Engineer", "Mobile Engineer"},
	"design":      {"Product Designer", "UX Researcher", "Brand Designer", "Design Lead"},
	"product":     {"Product Manager", "Associate Product Manager", "Group Product Manager"},
	"marketing":   {"Growth Marketer", "Content Strategist", "Performance Marketer"},
	"sales":       {"Account Executive", "Sales Development Representative", "Enterprise Sales Lead"},
	"operations":  {"Operations Manager", "People Operations Specialist", "Finance Analyst"},
}

var orgNameFirst = []string{"Acme", "Initech", "Hooli", "Vertex", "Nimbus", "Apex", "Lumen", "Orbit", "Quanta", "Zenith"}
var orgNameSecond = []string{"Robotics", "Labs", "Systems", "Dynamics", "Works", "Technologies", "Ventures", "Analytics"}

var skillPool = []string{"go", "python", "sql", "kubernetes", "react", "figma", "analytics", "communication", "crm", "seo"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random index below n.
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateOrganizations creates n synthetic organization documents.
func generateOrganizations(n int) []model.Document {
	docs := make([]model.Document, 0, n)
	for i := 0; i < n; i++ {
		name := orgNameFirst[randomIndex(len(orgNameFirst))] + " " + orgNameSecond[randomIndex(len(orgNameSecond))]
		// Name collisions across orgs are fine; ids stay unique.
		docs = append(docs, model.Document{
			"id":           uuid.New().String(),
			"display_name": name,
			"verified":     getRandomFloat() < 0.6,
			"logo_ref":     "logos/" + strconv.Itoa(i) + ".png",
		})
	}
	return docs
}

// generateListings creates n synthetic listing documents referencing the
// seeded organizations. A small share carries only the organization name.
func generateListings(n int, orgs []model.Document) []model.Document {
	docs := make([]model.Document, 0, n)
	for i := 0; i < n; i++ {
		org := orgs[randomIndex(len(orgs))]
		category := categories[randomIndex(len(categories))]
		titles := titlesByCategory[category]
		title := titles[randomIndex(len(titles))]

		doc := model.Document{
			"id":           uuid.New().String(),
			"title":        title,
			"category":     category,
			"description":  "Join " + org.StringField("display_name") + " as a " + title + ".",
			"requirements": randomSkills(),
			"compensation": randomCompensation(),
		}

		if getRandomFloat() < nameOnlyShare {
			doc["organization_name"] = org.StringField("display_name")
		} else {
			doc["organization_id"] = org.StringField("id")
			doc["organization_name"] = org.StringField("display_name")
		}

		// Roughly one in eight listings is remote and carries no coordinates.
		if randomIndex(8) != 0 {
			c := cities[randomIndex(len(cities))]
			doc["locality"] = c.name
			doc["lat"] = c.lat + (getRandomFloat()-0.5)*jitterDegrees
			doc["lon"] = c.lon + (getRandomFloat()-0.5)*jitterDegrees
		} else {
			doc["locality"] = "Remote"
		}

		docs = append(docs, doc)
	}
	return docs
}

// mutateListing returns a copy of doc with its title and compensation
// rewritten, keeping the id stable so the change reads as an update.
func mutateListing(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	category, _ := out["category"].(string)
	if titles, ok := titlesByCategory[category]; ok {
		out["title"] = titles[randomIndex(len(titles))] + " (Updated)"
	}
	out["compensation"] = randomCompensation()
	return out
}

func randomSkills() []string {
	count := 2 + randomIndex(3)
	picked := make([]string, 0, count)
	for len(picked) < count {
		s := skillPool[randomIndex(len(skillPool))]
		seen := false
		for _, p := range picked {
			if p == s {
				seen = true
				break
			}
		}
		if !seen {
			picked = append(picked, s)
		}
	}
	return picked
}

func randomCompensation() string {
	base := 8 + randomIndex(40)
	return "₹" + strconv.Itoa(base) + "L–₹" + strconv.Itoa(base+6) + "L"
}
