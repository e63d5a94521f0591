package model

import "slices"

// AssessmentMap holds the ordered assessment names registered for each
// (category, subject) pair: category ID → subject ID → names.
type AssessmentMap map[string]map[string][]string

// Names returns the names registered for the pair, in insertion order.
// The returned slice must not be modified.
func (m AssessmentMap) Names(categoryID, subjectID string) []string {
	if m == nil {
		return nil
	}
	return m[categoryID][subjectID]
}

// Has reports whether name is registered for the pair.
func (m AssessmentMap) Has(categoryID, subjectID, name string) bool {
	return slices.Contains(m.Names(categoryID, subjectID), name)
}

// Add registers name for the pair. Adding an existing name is a no-op and
// returns false.
func (m AssessmentMap) Add(categoryID, subjectID, name string) bool {
	if m.Has(categoryID, subjectID, name) {
		return false
	}
	bySubject, ok := m[categoryID]
	if !ok {
		bySubject = make(map[string][]string)
		m[categoryID] = bySubject
	}
	bySubject[subjectID] = append(bySubject[subjectID], name)
	return true
}

// Remove unregisters name for the pair and reports whether it was present.
// Empty inner maps are pruned.
func (m AssessmentMap) Remove(categoryID, subjectID, name string) bool {
	names := m.Names(categoryID, subjectID)
	i := slices.Index(names, name)
	if i < 0 {
		return false
	}
	names = slices.Delete(slices.Clone(names), i, i+1)
	if len(names) == 0 {
		delete(m[categoryID], subjectID)
		if len(m[categoryID]) == 0 {
			delete(m, categoryID)
		}
		return true
	}
	m[categoryID][subjectID] = names
	return true
}

// Rename replaces oldName with newName in place, keeping its position.
// It returns false if oldName is absent or newName is already registered.
func (m AssessmentMap) Rename(categoryID, subjectID, oldName, newName string) bool {
	names := m.Names(categoryID, subjectID)
	i := slices.Index(names, oldName)
	if i < 0 || slices.Contains(names, newName) {
		return false
	}
	names = slices.Clone(names)
	names[i] = newName
	m[categoryID][subjectID] = names
	return true
}

// Clone returns a deep copy.
func (m AssessmentMap) Clone() AssessmentMap {
	out := make(AssessmentMap, len(m))
	for cat, bySubject := range m {
		inner := make(map[string][]string, len(bySubject))
		for subj, names := range bySubject {
			inner[subj] = slices.Clone(names)
		}
		out[cat] = inner
	}
	return out
}
