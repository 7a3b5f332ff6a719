package models

import (
	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	City               string   `bun:"city,notnull" json:"city"`
	State              string   `bun:"state,notnull" json:"state"`
	Phone              string   `bun:"phone" json:"phone"`
	Genres             []string `bun:"genres,type:jsonb" json:"genres"`
	ImageLink          string   `bun:"image_link" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link" json:"facebook_link"`
	SeekingVenue       bool     `bun:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string   `bun:"seeking_description" json:"seeking_description"`
	Website            string   `bun:"website" json:"website"`
}

func (a *Artist) Normalize() {
	if a.Genres == nil {
		a.Genres = []string{}
	}
}

func (a *Artist) Apply(p ArtistPatch) {
	setString(&a.Name, p.Name)
	setString(&a.City, p.City)
	setString(&a.State, p.State)
	setString(&a.Phone, p.Phone)
	setString(&a.ImageLink, p.ImageLink)
	setString(&a.FacebookLink, p.FacebookLink)
	setString(&a.Website, p.Website)
	setString(&a.SeekingDescription, p.SeekingDescription)
	if p.Genres != nil {
		a.Genres = append([]string{}, (*p.Genres)...)
	}
	if p.SeekingVenue != nil {
		a.SeekingVenue = *p.SeekingVenue
	}
}
