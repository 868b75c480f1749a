package physics

import (
	"fmt"

	"github.com/phil-mansfield/table"
)

// ReadMaterialTable reads multigroup constants for one material from a
// whitespace-separated text table with one row per energy group. The first
// five columns are total, capture, and fission cross sections, nu, and chi;
// the following groups columns are the scatter transfer row.
func ReadMaterialTable(name, file string, groups int) (*Material, error) {
	colIdxs := make([]int, 5+groups)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("could not read material table '%s': %v", file, err)
	}
	if len(cols[0]) != groups {
		return nil, fmt.Errorf(
			"material table '%s' has %d rows for %d groups",
			file, len(cols[0]), groups,
		)
	}

	m := &Material{
		Name:    name,
		Total:   cols[0],
		Capture: cols[1],
		Fission: cols[2],
		Nu:      cols[3],
		Chi:     cols[4],
		Scatter: make([][]float64, groups),
	}
	for g := 0; g < groups; g++ {
		m.Scatter[g] = make([]float64, groups)
		for gp := 0; gp < groups; gp++ {
			m.Scatter[g][gp] = cols[5+gp][g]
		}
	}

	if err := m.Validate(groups); err != nil {
		return nil, err
	}
	return m, nil
}
