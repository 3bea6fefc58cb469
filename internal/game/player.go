package game

// Player holds one participant's in-session state. It lives for the duration
// of a session; the persisted aggregate remains in the score store after the
// session is discarded.
type Player struct {
	ID          int64
	Name        string
	DisplayName string
	AvatarURL   string

	Score        int
	Correct      int
	Incorrect    int
	AnswerStreak int
	AllTimeScore int64

	Abilities []AbilityKind
	Meter     int
}

// NewPlayer creates a player with zeroed counters.
func NewPlayer(id int64, name, displayName, avatarURL string) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
}

// AddCorrect applies the correct-answer reward and bumps the streak.
func (p *Player) AddCorrect(st Settings) {
	p.Score += st.CorrectPoints
	p.Correct++
	p.AnswerStreak++
}

// AddIncorrect applies the incorrect-answer penalty and resets the streak.
func (p *Player) AddIncorrect(st Settings) {
	p.Score -= st.IncorrectPoints
	p.Incorrect++
	p.AnswerStreak = 0
}

// AddAbility appends an ability to the player's inventory. Duplicates are
// allowed.
func (p *Player) AddAbility(kind AbilityKind) {
	p.Abilities = append(p.Abilities, kind)
}

// HasAbility reports whether the player holds at least one copy of kind.
func (p *Player) HasAbility(kind AbilityKind) bool {
	for _, a := range p.Abilities {
		if a == kind {
			return true
		}
	}
	return false
}

// RemoveAbility removes one copy of kind from the inventory. Returns false
// when the player holds none.
func (p *Player) RemoveAbility(kind AbilityKind) bool {
	for i, a := range p.Abilities {
		if a == kind {
			p.Abilities = append(p.Abilities[:i], p.Abilities[i+1:]...)
			return true
		}
	}
	return false
}

// AdvanceMeter adds value to the ability meter and grants one random ability
// per threshold crossing. A single oversized update can grant more than one.
func (p *Player) AdvanceMeter(value int, st Settings) []AbilityKind {
	p.Meter += value

	var granted []AbilityKind
	for p.Meter >= st.MeterThreshold {
		p.Meter -= st.MeterThreshold
		kind := RandomAbility()
		p.AddAbility(kind)
		granted = append(granted, kind)
	}
	return granted
}

// MeterPercent reports how full the ability meter is.
func (p *Player) MeterPercent(st Settings) int {
	if st.MeterThreshold <= 0 {
		return 0
	}
	return p.Meter * 100 / st.MeterThreshold
}
