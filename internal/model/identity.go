package model

// UserIdentity identifies the logged in user. The JSON shape matches what the
// browser client persisted under the "user" key.
type UserIdentity struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
}

// IsZero reports whether no user is logged in.
func (u UserIdentity) IsZero() bool {
	return u.RollNumber == "" && u.Name == ""
}

// Complete reports whether both halves of the identity are present.
func (u UserIdentity) Complete() bool {
	return u.RollNumber != "" && u.Name != ""
}

// FilledData maps field ids to the user's raw values. Checkbox values are the
// comma-joined list of selected option values.
type FilledData map[string]string

// Get returns the value for id, treating absent keys as the empty string.
func (d FilledData) Get(id string) string {
	if d == nil {
		return ""
	}
	return d[id]
}

// Clone returns an independent copy.
func (d FilledData) Clone() FilledData {
	out := make(FilledData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
