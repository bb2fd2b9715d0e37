package entity

// Player is a bound participant as shown to the room.
type Player struct {
	ConnectionID string `json:"connectionId"`
	Nickname     string `json:"nickname"`
}

// Roles maps each playable side to a value, e.g. a connection id or session token.
type Roles struct {
	X string `json:"X"`
	O string `json:"O"`
}

func (that Roles) Get(role string) string {
	switch role {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	}
	return ""
}

func (that *Roles) Set(role, value string) {
	switch role {
	case PlayerX:
		that.X = value
	case PlayerO:
		that.O = value
	}
}

// RoleOf - returns the role holding value, or "" when none does.
func (that Roles) RoleOf(value string) string {
	switch {
	case value == "":
		return ""
	case that.X == value:
		return PlayerX
	case that.O == value:
		return PlayerO
	}
	return ""
}

func (that Roles) IsFull() bool {
	return that.X != "" && that.O != ""
}

func (that Roles) IsEmpty() bool {
	return that.X == "" && that.O == ""
}
