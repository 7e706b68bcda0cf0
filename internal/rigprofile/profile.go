package rigprofile

import (
	"encoding/json"
	"fmt"
	"os"

	"bvh-skeleton-renderer/internal/normalize"
	"bvh-skeleton-renderer/internal/skeleton"
)

// profileFile matches the JSON schema of a rig profile. Pointer fields
// distinguish "absent" from "set to zero/empty".
type profileFile struct {
	HeadNames       []string `json:"head_names"`
	FootNames       []string `json:"foot_names"`
	ExtraFootNames  []string `json:"extra_foot_names"`
	CanonicalHeight *float64 `json:"canonical_height"`
	MinBodyHeight   *float64 `json:"min_body_height"`
	GroundY         *float64 `json:"ground_y"`
	FallbackTarget  *float64 `json:"fallback_target"`
}

// Load reads a rig profile JSON file and merges it over the built-in
// normalization heuristics. head_names and foot_names replace the default
// lists wholesale; extra_foot_names appends to them instead, for rigs that
// only add a naming convention.
func Load(path string) (normalize.Heuristics, error) {
	h := normalize.Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("rigprofile: read %s: %w", path, err)
	}
	var pf profileFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return h, fmt.Errorf("rigprofile: parse %s: %w", path, err)
	}

	if len(pf.HeadNames) > 0 {
		h.HeadNames = pf.HeadNames
	}
	if len(pf.FootNames) > 0 {
		h.FootNames = pf.FootNames
	}
	h.FootNames = append(h.FootNames, pf.ExtraFootNames...)
	// Rebuild the synthesized end-site candidates from the final list.
	h.FootEndSites = make([]string, len(h.FootNames))
	for i, n := range h.FootNames {
		h.FootEndSites[i] = skeleton.EndSitePrefix + n
	}

	if pf.CanonicalHeight != nil && *pf.CanonicalHeight > 0 {
		h.CanonicalHeight = *pf.CanonicalHeight
	}
	if pf.MinBodyHeight != nil && *pf.MinBodyHeight > 0 {
		h.MinBodyHeight = *pf.MinBodyHeight
	}
	if pf.GroundY != nil {
		h.GroundY = *pf.GroundY
	}
	if pf.FallbackTarget != nil && *pf.FallbackTarget > 0 {
		h.FallbackTarget = *pf.FallbackTarget
	}
	return h, nil
}
