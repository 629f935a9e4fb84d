package teams

// Team is the normalized team shape carried on game records.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// Label returns the most readable name available for the team.
func (t Team) Label() string {
	switch {
	case t.Name != "":
		return t.Name
	case t.Abbreviation != "":
		return t.Abbreviation
	default:
		return t.ID
	}
}
