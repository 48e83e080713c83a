package domain

import (
	"encoding/json"
)

// AssignmentKind tags the shape a creator or assignee field was stored in.
type AssignmentKind int

const (
	// AssignmentAbsent means the field was missing, null or unrecognised.
	AssignmentAbsent AssignmentKind = iota
	// AssignmentSingle means the field held one user record.
	AssignmentSingle
	// AssignmentMany means the field held a list of user records.
	AssignmentMany
)

// UserRef is the user record embedded in task documents.
type UserRef struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Assignment is the normalized form of the created_by and assigned_to task
// fields, which are stored as nothing, a single record, or a list of records.
type Assignment struct {
	Kind AssignmentKind
	Refs []UserRef
}

// SingleAssignment returns an Assignment holding one user record.
func SingleAssignment(ref UserRef) Assignment {
	return Assignment{Kind: AssignmentSingle, Refs: []UserRef{ref}}
}

// ManyAssignment returns an Assignment holding a list of user records.
func ManyAssignment(refs ...UserRef) Assignment {
	return Assignment{Kind: AssignmentMany, Refs: refs}
}

// NormalizeAssignment converts a raw document value into an Assignment.
// Maps become Single, lists become Many (non-record elements are dropped) and
// everything else, including nil, becomes Absent.
func NormalizeAssignment(raw any) Assignment {
	switch v := raw.(type) {
	case map[string]any:
		return SingleAssignment(userRefFromMap(v))
	case []any:
		refs := make([]UserRef, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				refs = append(refs, userRefFromMap(m))
			}
		}
		return ManyAssignment(refs...)
	case []map[string]any:
		refs := make([]UserRef, 0, len(v))
		for _, m := range v {
			refs = append(refs, userRefFromMap(m))
		}
		return ManyAssignment(refs...)
	default:
		return Assignment{Kind: AssignmentAbsent}
	}
}

func userRefFromMap(m map[string]any) UserRef {
	return UserRef{
		UserID: stringField(m, "user_id"),
		Name:   stringField(m, "name"),
		Email:  stringField(m, "email"),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// IsAbsent reports whether no user record was stored.
func (a Assignment) IsAbsent() bool {
	return a.Kind == AssignmentAbsent
}

// UserIDs returns the non-empty user ids in storage order, without duplicates.
func (a Assignment) UserIDs() []string {
	ids := make([]string, 0, len(a.Refs))
	seen := make(map[string]struct{}, len(a.Refs))
	for _, ref := range a.Refs {
		if ref.UserID == "" {
			continue
		}
		if _, dup := seen[ref.UserID]; dup {
			continue
		}
		seen[ref.UserID] = struct{}{}
		ids = append(ids, ref.UserID)
	}
	return ids
}

// Includes reports whether userID is one of the assigned users.
func (a Assignment) Includes(userID string) bool {
	if userID == "" {
		return false
	}
	for _, ref := range a.Refs {
		if ref.UserID == userID {
			return true
		}
	}
	return false
}

// MarshalJSON renders the assignment in the shape it was stored in:
// null, a single object, or an array.
func (a Assignment) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AssignmentSingle:
		if len(a.Refs) == 0 {
			return []byte("null"), nil
		}
		return json.Marshal(a.Refs[0])
	case AssignmentMany:
		refs := a.Refs
		if refs == nil {
			refs = []UserRef{}
		}
		return json.Marshal(refs)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, an object or an array of objects.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NormalizeAssignment(raw)
	return nil
}
