package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	City               string   `bun:"city,notnull" json:"city"`
	State              string   `bun:"state,notnull" json:"state"`
	Address            string   `bun:"address" json:"address"`
	Phone              string   `bun:"phone" json:"phone"`
	ImageLink          string   `bun:"image_link" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link" json:"facebook_link"`
	Genres             []string `bun:"genres,type:jsonb" json:"genres"`
	Website            string   `bun:"website" json:"website"`
	SeekingTalent      bool     `bun:"seeking_talent" json:"seeking_talent"`
	SeekingDescription string   `bun:"seeking_description" json:"seeking_description"`
}

// Normalize replaces a NULL genre list with an empty one.
func (v *Venue) Normalize() {
	if v.Genres == nil {
		v.Genres = []string{}
	}
}

// Apply copies every set field of p onto v.
func (v *Venue) Apply(p VenuePatch) {
	setString(&v.Name, p.Name)
	setString(&v.City, p.City)
	setString(&v.State, p.State)
	setString(&v.Address, p.Address)
	setString(&v.Phone, p.Phone)
	setString(&v.ImageLink, p.ImageLink)
	setString(&v.FacebookLink, p.FacebookLink)
	setString(&v.Website, p.Website)
	setString(&v.SeekingDescription, p.SeekingDescription)
	if p.Genres != nil {
		v.Genres = append([]string{}, (*p.Genres)...)
	}
	if p.SeekingTalent != nil {
		v.SeekingTalent = *p.SeekingTalent
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
