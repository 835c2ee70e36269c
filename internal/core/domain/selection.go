package domain

// Selection is the persisted "last selected preset name per kind" record for
// one workspace. Build, test and package selections are keyed by the
// configure preset they were chosen under, so switching configure presets
// restores the sibling selections that belong to it.
type Selection struct {
	Configure string            `json:"configure,omitempty"`
	Workflow  string            `json:"workflow,omitempty"`
	Build     map[string]string `json:"build,omitempty"`
	Test      map[string]string `json:"test,omitempty"`
	Package   map[string]string `json:"package,omitempty"`
}

// ForKind returns the selected preset name for a kind under the currently
// selected configure preset.
func (s *Selection) ForKind(kind PresetKind) string {
	if s == nil {
		return ""
	}
	switch kind {
	case KindConfigure:
		return s.Configure
	case KindWorkflow:
		return s.Workflow
	case KindBuild:
		return s.Build[s.Configure]
	case KindTest:
		return s.Test[s.Configure]
	case KindPackage:
		return s.Package[s.Configure]
	default:
		return ""
	}
}

// SetForKind records the selected preset name for a kind. Stage selections
// are stored under the currently selected configure preset.
func (s *Selection) SetForKind(kind PresetKind, name string) {
	switch kind {
	case KindConfigure:
		s.Configure = name
	case KindWorkflow:
		s.Workflow = name
	case KindBuild:
		if s.Build == nil {
			s.Build = make(map[string]string)
		}
		s.Build[s.Configure] = name
	case KindTest:
		if s.Test == nil {
			s.Test = make(map[string]string)
		}
		s.Test[s.Configure] = name
	case KindPackage:
		if s.Package == nil {
			s.Package = make(map[string]string)
		}
		s.Package[s.Configure] = name
	}
}
