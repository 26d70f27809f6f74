package mrtopo

import (
	"fmt"
	"sort"
)

// RoadClass is administrative class of maintained road
type RoadClass uint16

const (
	ROAD_HIGHWAY = RoadClass(iota + 1)
	ROAD_FIRST_CLASS
	ROAD_SECOND_CLASS
	ROAD_THIRD_CLASS
	ROAD_FOURTH_CLASS
)

func (iotaIdx RoadClass) String() string {
	return [...]string{"highway", "first_class", "second_class", "third_class", "fourth_class"}[iotaIdx-1]
}

// RoadClassFromString returns RoadClass for given string representation
func RoadClassFromString(class string) (RoadClass, error) {
	switch class {
	case "highway":
		return ROAD_HIGHWAY, nil
	case "first_class":
		return ROAD_FIRST_CLASS, nil
	case "second_class":
		return ROAD_SECOND_CLASS, nil
	case "third_class":
		return ROAD_THIRD_CLASS, nil
	case "fourth_class":
		return ROAD_FOURTH_CLASS, nil
	default:
		return 0, fmt.Errorf("Unknown road class: '%s'", class)
	}
}

// TrafficLoad is traffic load class of maintained road
type TrafficLoad uint16

const (
	TRAFFIC_HEAVY = TrafficLoad(iota + 1)
	TRAFFIC_MODERATE
	TRAFFIC_LIGHT
)

func (iotaIdx TrafficLoad) String() string {
	return [...]string{"heavy", "moderate", "light"}[iotaIdx-1]
}

// PavementIndices is set of measured pavement condition indices
type PavementIndices struct {
	PCI int // Pavement Condition Index
	RQI int // Ride Quality Index
	RDI int // Rut Depth Index
	SRI int // Surface Roughness Index
}

// PreprocessingNeed tells whether pavement needs preprocessing before
// applying a maintenance technique
type PreprocessingNeed uint16

const (
	PREPROCESSING_NOT_REQUIRED = PreprocessingNeed(iota + 1)
	PREPROCESSING_OPTIONAL
	PREPROCESSING_REQUIRED
)

func (iotaIdx PreprocessingNeed) String() string {
	return [...]string{"No preprocessing required", "Preprocessing optional", "Preprocessing needed"}[iotaIdx-1]
}

// PreprocessingKey addresses single cell of preprocessing reference table
type PreprocessingKey struct {
	DistressType string
	Severity     string
	Technique    string
}

// PreprocessingTable maps distress type and severity to preprocessing
// requirement of each maintenance technique. Unknown combination is treated
// as requiring preprocessing
type PreprocessingTable map[PreprocessingKey]PreprocessingNeed

// Need returns preprocessing requirement for given technique
func (table PreprocessingTable) Need(distressType, severity, technique string) PreprocessingNeed {
	if need, ok := table[PreprocessingKey{distressType, severity, technique}]; ok {
		return need
	}
	return PREPROCESSING_REQUIRED
}

// Recommendation is single ranked maintenance technique suggestion
type Recommendation struct {
	Technique string
	// Note is detailed variant description (empty when technique has none)
	Note string
	// Scores are per-indicator fitness values: road class fit, traffic
	// load fit, distress type fit
	Scores [3]int
	Cost   float64
	// Preprocessing is human readable preprocessing recommendation
	Preprocessing string
}

// heavyPenaltyPos marks which score component degrades under heavy traffic
const (
	noPenalty       = 0
	trafficPenalty  = 1 // second score component
	distressPenalty = 2 // third score component
)

// techniqueRule is a single row of the declarative decision table. A rule is
// applicable when pavement indices pass the thresholds and distress type is
// listed in applicable set (empty set accepts any)
type techniqueRule struct {
	technique string
	note      string
	roadClass RoadClass

	minPCI int
	minRDI int
	maxRDI int // exclusive, 0 = unbounded
	minSRI int

	distress     []string
	weakDistress []string // distress types scoring 0 on the third component
	roadScore    int
	heavyPenalty int
}

var (
	fogDistress     = []string{"Mottled Surface", "Pavement Seepage", "Asphalt Aging"}
	sealDistress    = []string{"Skid Resistance Loss", "Pavement Seepage", "Pavement Abrasion", "Asphalt Aging"}
	overlayDistress = []string{"Skid Resistance Loss", "Pavement Seepage", "Pavement Abrasion", "Asphalt Aging", "Pavement Unevenness"}
	agingUneven     = []string{"Asphalt Aging", "Pavement Unevenness"}
	seepageUneven   = []string{"Pavement Seepage", "Pavement Unevenness"}
	agingOnly       = []string{"Asphalt Aging"}
)

// techniqueCosts is reference cost per maintenance technique
var techniqueCosts = map[string]float64{
	"Fog Sealing":                  9.8,
	"Stone-Fiber Sealing":          40,
	"Slurry Sealing":               30,
	"Micro-Surfacing":              22.5,
	"Composite Sealing":            30,
	"Thin Overlay":                 63.37,
	"Ultra-Thin Overlay":           50,
	"Sealing Overlay":              55,
	"In-situ Thermal Regeneration": 60,
	"Overlay":                      70,
	"Structural Rehabilitation":    75,
}

// decisionTable is the full declarative rule set, replacing the historical
// per-class conditional cascades
var decisionTable = []techniqueRule{
	/* Highway */
	{technique: "Fog Sealing", roadClass: ROAD_HIGHWAY, minPCI: 93, minRDI: 93, minSRI: 80, distress: fogDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing", roadClass: ROAD_HIGHWAY, minPCI: 90, minRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing (fill ruts before sealing)", roadClass: ROAD_HIGHWAY, minPCI: 90, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Composite Sealing", note: "Stone/Fiber Sealing plus Micro-Surfacing", roadClass: ROAD_HIGHWAY, minPCI: 85, minRDI: 85, distress: sealDistress, roadScore: 1},
	{technique: "Ultra-Thin Overlay", roadClass: ROAD_HIGHWAY, minPCI: 88, minRDI: 85, distress: sealDistress, weakDistress: agingOnly, roadScore: 1},
	{technique: "Thin Overlay", roadClass: ROAD_HIGHWAY, minPCI: 85, minRDI: 80, distress: overlayDistress, weakDistress: agingUneven, roadScore: 1},
	{technique: "Overlay", roadClass: ROAD_HIGHWAY, minPCI: 80, distress: overlayDistress, roadScore: 1},
	{technique: "Sealing Overlay", roadClass: ROAD_HIGHWAY, minPCI: 83, minRDI: 80, weakDistress: agingUneven, roadScore: 1},
	{technique: "In-situ Thermal Regeneration", roadClass: ROAD_HIGHWAY, minPCI: 85, minRDI: 75, weakDistress: seepageUneven, roadScore: 1},

	/* First class */
	{technique: "Fog Sealing", roadClass: ROAD_FIRST_CLASS, minPCI: 90, minRDI: 90, minSRI: 80, distress: fogDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing", roadClass: ROAD_FIRST_CLASS, minPCI: 85, minRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing (fill ruts before sealing)", roadClass: ROAD_FIRST_CLASS, minPCI: 85, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Composite Sealing", note: "Stone/Fiber Sealing plus Micro-Surfacing", roadClass: ROAD_FIRST_CLASS, minPCI: 80, minRDI: 80, distress: sealDistress, roadScore: 1},
	{technique: "Thin Overlay", roadClass: ROAD_FIRST_CLASS, minPCI: 80, minRDI: 80, distress: overlayDistress, weakDistress: agingUneven, roadScore: 1},
	{technique: "Ultra-Thin Overlay", roadClass: ROAD_FIRST_CLASS, minPCI: 83, minRDI: 80, distress: sealDistress, weakDistress: agingOnly, roadScore: 1},
	{technique: "Overlay", roadClass: ROAD_FIRST_CLASS, minPCI: 75, distress: overlayDistress, roadScore: 1},
	{technique: "Sealing Overlay", roadClass: ROAD_FIRST_CLASS, minPCI: 80, minRDI: 80, weakDistress: agingUneven, roadScore: 1},
	{technique: "In-situ Thermal Regeneration", roadClass: ROAD_FIRST_CLASS, minPCI: 80, minRDI: 70, weakDistress: seepageUneven, roadScore: 1},

	/* Second class */
	{technique: "Fog Sealing", roadClass: ROAD_SECOND_CLASS, minPCI: 90, minRDI: 90, minSRI: 80, distress: fogDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Stone-Fiber Sealing", roadClass: ROAD_SECOND_CLASS, minPCI: 82, minRDI: 82, distress: sealDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Slurry Sealing", roadClass: ROAD_SECOND_CLASS, minPCI: 85, minRDI: 85, distress: sealDistress, roadScore: 1, heavyPenalty: distressPenalty},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing", roadClass: ROAD_SECOND_CLASS, minPCI: 85, minRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing (fill ruts before sealing)", roadClass: ROAD_SECOND_CLASS, minPCI: 85, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 1},
	{technique: "Composite Sealing", note: "Stone Sealing plus Slurry Sealing", roadClass: ROAD_SECOND_CLASS, minPCI: 80, minRDI: 80, distress: sealDistress, roadScore: 1},
	{technique: "Thin Overlay", roadClass: ROAD_SECOND_CLASS, minPCI: 80, distress: overlayDistress, weakDistress: agingUneven, roadScore: 1},
	{technique: "Ultra-Thin Overlay", roadClass: ROAD_SECOND_CLASS, minPCI: 83, distress: sealDistress, weakDistress: agingOnly, roadScore: 0},
	{technique: "Overlay", roadClass: ROAD_SECOND_CLASS, minPCI: 75, distress: overlayDistress, roadScore: 1},
	{technique: "Sealing Overlay", roadClass: ROAD_SECOND_CLASS, minPCI: 80, weakDistress: agingUneven, roadScore: 1},
	{technique: "In-situ Thermal Regeneration", roadClass: ROAD_SECOND_CLASS, minPCI: 80, minRDI: 70, weakDistress: seepageUneven, roadScore: 1},

	/* Third class */
	{technique: "Fog Sealing", roadClass: ROAD_THIRD_CLASS, minPCI: 85, minRDI: 85, distress: fogDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Stone-Fiber Sealing", roadClass: ROAD_THIRD_CLASS, minPCI: 80, minRDI: 80, distress: sealDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Slurry Sealing", roadClass: ROAD_THIRD_CLASS, minPCI: 80, minRDI: 80, distress: sealDistress, roadScore: 1, heavyPenalty: distressPenalty},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing", roadClass: ROAD_THIRD_CLASS, minPCI: 80, minRDI: 90, distress: sealDistress, roadScore: 0},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing (fill ruts before sealing)", roadClass: ROAD_THIRD_CLASS, minPCI: 80, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 0},
	{technique: "Composite Sealing", note: "Stone Sealing plus Slurry Sealing", roadClass: ROAD_THIRD_CLASS, minPCI: 75, minRDI: 75, distress: sealDistress, roadScore: 1},
	{technique: "Thin Overlay", roadClass: ROAD_THIRD_CLASS, minPCI: 80, distress: overlayDistress, weakDistress: agingUneven, roadScore: 1},
	{technique: "Ultra-Thin Overlay", roadClass: ROAD_THIRD_CLASS, minPCI: 80, distress: sealDistress, weakDistress: agingOnly, roadScore: 0},
	{technique: "Overlay", roadClass: ROAD_THIRD_CLASS, minPCI: 70, distress: overlayDistress, roadScore: 1},
	{technique: "Sealing Overlay", roadClass: ROAD_THIRD_CLASS, minPCI: 80, weakDistress: agingUneven, roadScore: 1},

	/* Fourth class */
	{technique: "Fog Sealing", roadClass: ROAD_FOURTH_CLASS, minPCI: 85, minRDI: 85, distress: fogDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Stone-Fiber Sealing", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 1, heavyPenalty: trafficPenalty},
	{technique: "Slurry Sealing", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, minRDI: 80, distress: sealDistress, roadScore: 1, heavyPenalty: distressPenalty},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, minRDI: 90, distress: sealDistress, roadScore: 0},
	{technique: "Micro-Surfacing", note: "Micro-Surfacing (fill ruts before sealing)", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, minRDI: 60, maxRDI: 90, distress: sealDistress, roadScore: 0},
	{technique: "Composite Sealing", note: "Stone Sealing plus Slurry Sealing", roadClass: ROAD_FOURTH_CLASS, minPCI: 75, minRDI: 75, distress: sealDistress, roadScore: 1},
	{technique: "Thin Overlay", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, distress: overlayDistress, weakDistress: agingUneven, roadScore: 1},
	{technique: "Ultra-Thin Overlay", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, distress: sealDistress, weakDistress: agingOnly, roadScore: 0},
	{technique: "Overlay", roadClass: ROAD_FOURTH_CLASS, minPCI: 70, distress: overlayDistress, roadScore: 1},
	{technique: "Sealing Overlay", roadClass: ROAD_FOURTH_CLASS, minPCI: 80, weakDistress: agingUneven, roadScore: 1},
}

func (rule *techniqueRule) applicable(indices PavementIndices, distressType string) bool {
	if indices.PCI < rule.minPCI {
		return false
	}
	if indices.RDI < rule.minRDI {
		return false
	}
	if rule.maxRDI > 0 && indices.RDI >= rule.maxRDI {
		return false
	}
	if indices.SRI < rule.minSRI {
		return false
	}
	if len(rule.distress) > 0 && !containsString(rule.distress, distressType) {
		return false
	}
	return true
}

func (rule *techniqueRule) scores(traffic TrafficLoad, distressType string) [3]int {
	scores := [3]int{rule.roadScore, 1, 1}
	if rule.heavyPenalty != noPenalty && traffic == TRAFFIC_HEAVY {
		scores[rule.heavyPenalty] = 0
	}
	if containsString(rule.weakDistress, distressType) {
		scores[2] = 0
	}
	return scores
}

func containsString(set []string, s string) bool {
	for i := range set {
		if set[i] == s {
			return true
		}
	}
	return false
}

// Recommend scores every applicable maintenance technique for given road and
// distress conditions and returns the top scoring group ranked by cost
// (cheapest first). When nothing applies the fallback is full structural
// rehabilitation.
//
// Severity together with distress type selects the preprocessing
// recommendation from the reference table (nil table is allowed)
func Recommend(indices PavementIndices, roadClass RoadClass, traffic TrafficLoad, distressType, severity string, preprocessing PreprocessingTable) []Recommendation {
	suggestions := make([]Recommendation, 0)
	for i := range decisionTable {
		rule := &decisionTable[i]
		if rule.roadClass != roadClass {
			continue
		}
		if !rule.applicable(indices, distressType) {
			continue
		}
		suggestions = append(suggestions, Recommendation{
			Technique: rule.technique,
			Note:      rule.note,
			Scores:    rule.scores(traffic, distressType),
			Cost:      techniqueCosts[rule.technique],
		})
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, Recommendation{
			Technique: "Structural Rehabilitation",
			Scores:    [3]int{1, 1, 1},
			Cost:      techniqueCosts["Structural Rehabilitation"],
		})
	}

	best := make([]Recommendation, 0)
	maxSum := -1
	for _, suggestion := range suggestions {
		sum := suggestion.Scores[0] + suggestion.Scores[1] + suggestion.Scores[2]
		if sum > maxSum {
			maxSum = sum
			best = best[:0]
		}
		if sum == maxSum {
			best = append(best, suggestion)
		}
	}
	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Cost < best[j].Cost
	})

	for i := range best {
		best[i].Preprocessing = preprocessing.Need(distressType, severity, best[i].Technique).String()
	}
	return best
}
