package internal

import "time"

// PublicParticipant is what other clients may see of a participant.
type PublicParticipant struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Position Vec3      `json:"position"`
	Rotation Vec3      `json:"rotation"`
	IsReady  bool      `json:"isReady"`
	JoinedAt time.Time `json:"joinedAt"`
}

func NewParticipant(id, name string, now time.Time) *Participant {
	return &Participant{
		Id:       id,
		Name:     name,
		Role:     RoleUnassigned,
		JoinedAt: now,
	}
}

func (p *Participant) ToPublic() PublicParticipant {
	return PublicParticipant{
		Id:       p.Id,
		Name:     p.Name,
		Position: p.Position,
		Rotation: p.Rotation,
		IsReady:  p.IsReady,
		JoinedAt: p.JoinedAt,
	}
}

func (p *Participant) ToggleReady() bool {
	p.IsReady = !p.IsReady
	return p.IsReady
}

func (p *Participant) MoveTo(position, rotation Vec3) {
	p.Position = position
	p.Rotation = rotation
}
