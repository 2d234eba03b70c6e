package domain

import (
	"sort"
	"strings"
)

// AppConfig is the backend's threshold configuration. Every raw status
// string must belong to exactly one of StatutsVivants and StatutsTermines.
type AppConfig struct {
	SeuilTicketsTechnicien  int      `json:"seuilTicketsTechnicien"`
	SeuilAncienneteCloturer int      `json:"seuilAncienneteCloturer"`
	SeuilInactiviteCloturer int      `json:"seuilInactiviteCloturer"`
	SeuilAncienneteRelancer int      `json:"seuilAncienneteRelancer"`
	SeuilInactiviteRelancer int      `json:"seuilInactiviteRelancer"`
	SeuilCouleurVert        int      `json:"seuilCouleurVert"`
	SeuilCouleurJaune       int      `json:"seuilCouleurJaune"`
	SeuilCouleurOrange      int      `json:"seuilCouleurOrange"`
	SeuilSimilariteDoublons float64  `json:"seuilSimilariteDoublons"`
	StatutsVivants          []string `json:"statutsVivants"`
	StatutsTermines         []string `json:"statutsTermines"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		SeuilTicketsTechnicien:  20,
		SeuilAncienneteCloturer: 90,
		SeuilInactiviteCloturer: 60,
		SeuilAncienneteRelancer: 30,
		SeuilInactiviteRelancer: 14,
		SeuilCouleurVert:        10,
		SeuilCouleurJaune:       20,
		SeuilCouleurOrange:      40,
		SeuilSimilariteDoublons: 0.85,
		StatutsVivants: []string{
			"Nouveau",
			"En cours (Attribué)",
			"En cours (Planifié)",
			"En attente",
		},
		StatutsTermines: []string{"Clos", "Résolu"},
	}
}

type StatusClass int

const (
	StatusUnclassified StatusClass = iota
	StatusVivant
	StatusTermine
)

func (c StatusClass) String() string {
	switch c {
	case StatusVivant:
		return "vivant"
	case StatusTermine:
		return "terminé"
	default:
		return "non classé"
	}
}

func (c AppConfig) Validate() error {
	p := newProblems("AppConfig")
	if len(c.StatutsVivants) == 0 {
		p.addf("statutsVivants is empty")
	}
	if len(c.StatutsTermines) == 0 {
		p.addf("statutsTermines is empty")
	}
	vivants := checkStatusSet(p, "statutsVivants", c.StatutsVivants)
	termines := checkStatusSet(p, "statutsTermines", c.StatutsTermines)
	for s := range vivants {
		if termines[s] {
			p.addf("status %q is both vivant and terminé", s)
		}
	}

	thresholds := map[string]int{
		"seuilTicketsTechnicien":  c.SeuilTicketsTechnicien,
		"seuilAncienneteCloturer": c.SeuilAncienneteCloturer,
		"seuilInactiviteCloturer": c.SeuilInactiviteCloturer,
		"seuilAncienneteRelancer": c.SeuilAncienneteRelancer,
		"seuilInactiviteRelancer": c.SeuilInactiviteRelancer,
	}
	names := make([]string, 0, len(thresholds))
	for name := range thresholds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if thresholds[name] < 0 {
			p.addf("%s=%d is negative", name, thresholds[name])
		}
	}
	if c.SeuilCouleurVert > c.SeuilCouleurJaune || c.SeuilCouleurJaune > c.SeuilCouleurOrange {
		p.addf("colour thresholds must be non-decreasing: vert=%d jaune=%d orange=%d",
			c.SeuilCouleurVert, c.SeuilCouleurJaune, c.SeuilCouleurOrange)
	}
	if c.SeuilSimilariteDoublons < 0 || c.SeuilSimilariteDoublons > 1 {
		p.addf("seuilSimilariteDoublons=%v outside [0,1]", c.SeuilSimilariteDoublons)
	}
	return p.err()
}

func checkStatusSet(p *problems, name string, statuses []string) map[string]bool {
	seen := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		key := normalizeStatus(s)
		if key == "" {
			p.addf("%s contains a blank status", name)
			continue
		}
		if seen[key] {
			p.addf("%s lists %q twice", name, s)
		}
		seen[key] = true
	}
	return seen
}

func normalizeStatus(s string) string {
	return strings.TrimSpace(s)
}

// Classify maps a raw status string to its class.
func (c AppConfig) Classify(status string) StatusClass {
	key := normalizeStatus(status)
	for _, s := range c.StatutsVivants {
		if normalizeStatus(s) == key {
			return StatusVivant
		}
	}
	for _, s := range c.StatutsTermines {
		if normalizeStatus(s) == key {
			return StatusTermine
		}
	}
	return StatusUnclassified
}

// Unclassified returns the statuses, deduplicated and sorted, that map to
// neither set. A non-empty result means downstream counts are inconsistent.
func (c AppConfig) Unclassified(statuses []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range statuses {
		key := normalizeStatus(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if c.Classify(key) == StatusUnclassified {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
