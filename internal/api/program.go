package api

import "encoding/json"

// programInfoKeys is the fixed partition between Program.Info and
// Program.Options when splitting the flat getProgram object. Keys in this
// set land in Info, everything else becomes an option.
var programInfoKeys = map[string]struct{}{
	"id":      {},
	"name":    {},
	"status":  {},
	"stepIds": {},
}

// ProgramInfo holds the identity fields of a program.
type ProgramInfo struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Status  string `json:"status,omitempty"` // "selected" on the active program
	StepIDs []int  `json:"stepIds,omitempty"`
}

// ProgramOption is one configurable program parameter. Depending on the
// option it carries a min/max/step range, a current setting, a list of
// legal values, or any combination of those.
type ProgramOption struct {
	Min     *int  `json:"min,omitempty"`
	Max     *int  `json:"max,omitempty"`
	Step    *int  `json:"step,omitempty"`
	Set     any   `json:"set,omitempty"`
	Options []any `json:"options,omitempty"`
}

// Program is one entry of getProgram, split into identity fields and the
// remaining per-option fields.
type Program struct {
	Info    ProgramInfo
	Options map[string]ProgramOption
}

// BuildProgram splits one flat program object along programInfoKeys. The
// two halves are disjoint and together cover every key of the input.
func BuildProgram(raw map[string]json.RawMessage) Program {
	info := make(map[string]json.RawMessage, len(programInfoKeys))
	options := make(map[string]ProgramOption, len(raw))

	for key, value := range raw {
		if _, ok := programInfoKeys[key]; ok {
			info[key] = value
			continue
		}
		var opt ProgramOption
		// Unknown option layouts keep their key with a zero value; the
		// firmware is not consistent about option shapes across models.
		_ = json.Unmarshal(value, &opt)
		options[key] = opt
	}

	var pi ProgramInfo
	if data, err := json.Marshal(info); err == nil {
		_ = json.Unmarshal(data, &pi)
	}

	return Program{Info: pi, Options: options}
}
